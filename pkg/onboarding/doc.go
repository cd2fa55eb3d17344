// Package onboarding holds the account domain behind the setup wizard: users
// asserted by the identity provider, their company, its locations and the
// segment/category reference data, plus the Service that applies the
// creation rules and builds the dashboard summary.
//
// Storage is abstracted behind Repository; internal/store/sqlite provides the
// production implementation.
package onboarding

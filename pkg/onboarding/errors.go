package onboarding

import "errors"

var (
	// ErrNotFound reports a missing user, company or location.
	ErrNotFound = errors.New("onboarding: not found")
	// ErrCompanyExists is returned when a user who already has a company
	// tries to create another one.
	ErrCompanyExists = errors.New("onboarding: user already has a company")
	// ErrNoCompany is returned when an operation needs the user's company
	// and none has been created yet.
	ErrNoCompany = errors.New("onboarding: user has no company")
	// ErrInvalidInput wraps malformed submissions.
	ErrInvalidInput = errors.New("onboarding: invalid input")
)

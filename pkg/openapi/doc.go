// Package openapi parses the onboarding API description with kin-openapi and
// turns request bodies into form models and raw JSON schemas. The embedded
// spec/onboarding.yaml document is the single source for field labels, input
// hints, and validation constraints used by the wizard.
package openapi

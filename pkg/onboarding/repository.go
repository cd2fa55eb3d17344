package onboarding

import "context"

// Repository persists the onboarding domain. Lookups of missing records
// return an error wrapping ErrNotFound.
type Repository interface {
	ListUsers(ctx context.Context) ([]User, error)
	UserByIdentity(ctx context.Context, identityID string) (User, error)
	CreateUser(ctx context.Context, identityID string) (User, error)

	ListCompanies(ctx context.Context) ([]Company, error)
	Company(ctx context.Context, id int64) (Company, error)
	// CreateCompanyForUser inserts company and assigns it to the user in one
	// transaction. It returns ErrCompanyExists when the user already has one.
	CreateCompanyForUser(ctx context.Context, userID int64, company Company) (Company, error)
	// CreateSetup does what CreateCompanyForUser does and also stores the
	// first location of the company, all in one transaction. Nothing is kept
	// when any write fails.
	CreateSetup(ctx context.Context, userID int64, company Company, location Location) (Company, Location, error)

	ListLocations(ctx context.Context) ([]Location, error)
	LocationsByCompany(ctx context.Context, companyID int64) ([]Location, error)
	// CreateLocation assigns location the next index of its company
	// (max + 1, starting at 1) atomically with the insert; location.Index is
	// ignored.
	CreateLocation(ctx context.Context, location Location) (Location, error)

	Segments(ctx context.Context) ([]Segment, error)
}

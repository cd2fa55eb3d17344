package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for domain events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service applies the onboarding rules over a Repository. It is safe for
// concurrent use when the repository is.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wraps repo.
func NewService(repo Repository, options ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Users lists every user.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// User returns the user registered for identityID.
func (s *Service) User(ctx context.Context, identityID string) (User, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return User{}, fmt.Errorf("%w: missing identity id", ErrInvalidInput)
	}
	return s.repo.UserByIdentity(ctx, identityID)
}

// EnsureUser returns the user registered for identityID, creating it when
// missing. created reports whether a new user was stored.
func (s *Service) EnsureUser(ctx context.Context, identityID string) (user User, created bool, err error) {
	user, err = s.User(ctx, identityID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}
	user, err = s.repo.CreateUser(ctx, strings.TrimSpace(identityID))
	if err != nil {
		return User{}, false, fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "identity_id", user.IdentityID)
	return user, true, nil
}

// Companies lists every company.
func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	return s.repo.ListCompanies(ctx)
}

// CompanyOf returns the company of the user registered for identityID.
func (s *Service) CompanyOf(ctx context.Context, identityID string) (Company, error) {
	user, err := s.User(ctx, identityID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Company{}, ErrNoCompany
		}
		return Company{}, err
	}
	if !user.HasCompany() {
		return Company{}, ErrNoCompany
	}
	return s.repo.Company(ctx, *user.CompanyID)
}

// CreateCompany stores the company of the user registered for identityID.
// A user is created first when the identity is new; users that already have
// a company get ErrCompanyExists.
func (s *Service) CreateCompany(ctx context.Context, identityID, email string, input CompanyInput) (Company, error) {
	user, _, err := s.EnsureUser(ctx, identityID)
	if err != nil {
		return Company{}, err
	}
	if user.HasCompany() {
		return Company{}, ErrCompanyExists
	}
	company, err := s.repo.CreateCompanyForUser(ctx, user.ID, input.Company(email))
	if err != nil {
		return Company{}, fmt.Errorf("create company: %w", err)
	}
	s.logger.InfoContext(ctx, "company created", "company_id", company.ID, "user_id", user.ID)
	return company, nil
}

// Locations lists every location.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return s.repo.ListLocations(ctx)
}

// CreateLocation adds a location to the company of the user registered for
// identityID. Locations are numbered from 1 in creation order; the
// repository assigns the number.
func (s *Service) CreateLocation(ctx context.Context, identityID string, input LocationInput) (Location, error) {
	company, err := s.CompanyOf(ctx, identityID)
	if err != nil {
		return Location{}, err
	}
	if err := s.checkCategory(ctx, input.Segment, input.Category); err != nil {
		return Location{}, err
	}
	location, err := s.repo.CreateLocation(ctx, input.Location(company.ID))
	if err != nil {
		return Location{}, fmt.Errorf("create location: %w", err)
	}
	s.logger.InfoContext(ctx, "location created", "location_id", location.ID, "company_id", company.ID, "index", location.Index)
	return location, nil
}

// Setup is the result of a completed account setup.
type Setup struct {
	Company  Company  `json:"company"`
	Location Location `json:"location"`
}

// CompleteSetup stores the company and first location submitted through the
// account setup wizard. values are the validated values per operation id.
// All input is checked before anything is written, and the company, its
// assignment and the location are stored together or not at all.
func (s *Service) CompleteSetup(ctx context.Context, identityID, email string, values map[string]map[string]any) (Setup, error) {
	companyValues, ok := values[OperationCreateCompany]
	if !ok {
		return Setup{}, fmt.Errorf("%w: missing %s values", ErrInvalidInput, OperationCreateCompany)
	}
	locationValues, ok := values[OperationCreateLocation]
	if !ok {
		return Setup{}, fmt.Errorf("%w: missing %s values", ErrInvalidInput, OperationCreateLocation)
	}
	locationInput, err := LocationInputFrom(locationValues)
	if err != nil {
		return Setup{}, err
	}
	if err := s.checkCategory(ctx, locationInput.Segment, locationInput.Category); err != nil {
		return Setup{}, err
	}

	user, _, err := s.EnsureUser(ctx, identityID)
	if err != nil {
		return Setup{}, err
	}
	if user.HasCompany() {
		return Setup{}, ErrCompanyExists
	}
	company, location, err := s.repo.CreateSetup(ctx, user.ID,
		CompanyInputFrom(companyValues).Company(email), locationInput.Location(0))
	if err != nil {
		return Setup{}, fmt.Errorf("complete setup: %w", err)
	}
	s.logger.InfoContext(ctx, "setup completed", "company_id", company.ID, "user_id", user.ID,
		"location_id", location.ID, "index", location.Index)
	return Setup{Company: company, Location: location}, nil
}

// Segments lists the segments with their categories.
func (s *Service) Segments(ctx context.Context) ([]Segment, error) {
	return s.repo.Segments(ctx)
}

func (s *Service) checkCategory(ctx context.Context, segmentID, categoryID int64) error {
	segments, err := s.repo.Segments(ctx)
	if err != nil {
		return fmt.Errorf("load segments: %w", err)
	}
	for _, segment := range segments {
		if segment.ID != segmentID {
			continue
		}
		for _, category := range segment.Categories {
			if category.ID == categoryID {
				return nil
			}
		}
		return fmt.Errorf("%w: category %d is not part of segment %d", ErrInvalidInput, categoryID, segmentID)
	}
	return fmt.Errorf("%w: unknown segment %d", ErrInvalidInput, segmentID)
}

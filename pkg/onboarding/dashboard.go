package onboarding

import (
	"context"
	"errors"
)

// Dashboard is the summary shown after sign in.
type Dashboard struct {
	Company         *CompanyCard   `json:"company"`
	LatestResults   []string       `json:"latestResults"`
	Locations       []LocationCard `json:"locations"`
	BenchmarkGroups []string       `json:"benchmarkGroups"`
}

// CompanyCard is the formatted company summary.
type CompanyCard struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LocationCard is the formatted summary of a location.
type LocationCard struct {
	Nickname string `json:"nickname"`
	Address  string `json:"address"`
	Segment  string `json:"segment,omitempty"`
	Category string `json:"category,omitempty"`
}

// Dashboard builds the summary for the user registered for identityID. Users
// without a company get an empty dashboard. Latest results stay empty until a
// results source exists; benchmark groups are the segments of the company's
// locations, in segment order.
func (s *Service) Dashboard(ctx context.Context, identityID string) (Dashboard, error) {
	out := Dashboard{LatestResults: []string{}, Locations: []LocationCard{}, BenchmarkGroups: []string{}}
	company, err := s.CompanyOf(ctx, identityID)
	if errors.Is(err, ErrNoCompany) {
		return out, nil
	}
	if err != nil {
		return Dashboard{}, err
	}
	out.Company = &CompanyCard{Name: company.Name, Address: company.FullAddress(), Phone: company.Phone()}

	locations, err := s.repo.LocationsByCompany(ctx, company.ID)
	if err != nil {
		return Dashboard{}, err
	}
	segments, err := s.repo.Segments(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	segmentNames := make(map[int64]string, len(segments))
	categoryNames := make(map[int64]string)
	for _, segment := range segments {
		segmentNames[segment.ID] = segment.Name
		for _, category := range segment.Categories {
			categoryNames[category.ID] = category.Name
		}
	}

	used := make(map[int64]struct{})
	for _, location := range locations {
		out.Locations = append(out.Locations, LocationCard{
			Nickname: location.Nickname,
			Address:  location.FullAddress(),
			Segment:  segmentNames[location.SegmentID],
			Category: categoryNames[location.CategoryID],
		})
		used[location.SegmentID] = struct{}{}
	}
	for _, segment := range segments {
		if _, ok := used[segment.ID]; ok {
			out.BenchmarkGroups = append(out.BenchmarkGroups, segment.Name)
		}
	}
	return out, nil
}

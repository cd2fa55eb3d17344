package onboarding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Operation ids of the request bodies the wizard submits.
const (
	OperationCreateCompany  = "createCompany"
	OperationCreateLocation = "createLocation"
)

// CompanyInput is a validated company submission.
type CompanyInput struct {
	RepFirstName     string `json:"repFirstName"`
	RepLastName      string `json:"repLastName"`
	RepPhone         string `json:"repPhone"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	AddressSecondary string `json:"addressSecondary"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
}

// LocationInput is a validated location submission.
type LocationInput struct {
	Name             string `json:"name"`
	StartYear        int    `json:"startYear"`
	Address          string `json:"address"`
	AddressSecondary string `json:"addressSecondary"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	Segment          int64  `json:"segment"`
	Category         int64  `json:"category"`
}

// CompanyInputFrom reads the coerced values of a createCompany submission.
func CompanyInputFrom(values map[string]any) CompanyInput {
	return CompanyInput{
		RepFirstName:     stringField(values, "repFirstName"),
		RepLastName:      stringField(values, "repLastName"),
		RepPhone:         stringField(values, "repPhone"),
		Name:             stringField(values, "name"),
		Address:          stringField(values, "address"),
		AddressSecondary: stringField(values, "addressSecondary"),
		City:             stringField(values, "city"),
		State:            strings.ToUpper(stringField(values, "state")),
		Zip:              stringField(values, "zip"),
	}
}

// LocationInputFrom reads the coerced values of a createLocation submission.
func LocationInputFrom(values map[string]any) (LocationInput, error) {
	year, err := intField(values, "startYear")
	if err != nil {
		return LocationInput{}, err
	}
	segment, err := intField(values, "segment")
	if err != nil {
		return LocationInput{}, err
	}
	category, err := intField(values, "category")
	if err != nil {
		return LocationInput{}, err
	}
	return LocationInput{
		Name:             stringField(values, "name"),
		StartYear:        int(year),
		Address:          stringField(values, "address"),
		AddressSecondary: stringField(values, "addressSecondary"),
		City:             stringField(values, "city"),
		State:            strings.ToUpper(stringField(values, "state")),
		Zip:              stringField(values, "zip"),
		Segment:          segment,
		Category:         category,
	}, nil
}

// Company maps the input to a new company record; the representative email
// comes from the identity provider.
func (in CompanyInput) Company(email string) Company {
	building, street := SplitAddress(in.Address, in.AddressSecondary)
	return Company{
		Name:           strings.TrimSpace(in.Name),
		BuildingNumber: building,
		Street:         street,
		City:           strings.TrimSpace(in.City),
		State:          in.State,
		Zip:            strings.TrimSpace(in.Zip),
		RepFirstName:   strings.TrimSpace(in.RepFirstName),
		RepLastName:    strings.TrimSpace(in.RepLastName),
		RepPhone:       strings.TrimSpace(in.RepPhone),
		RepEmail:       strings.TrimSpace(email),
	}
}

// Location maps the input to a new location of companyID. The repository
// assigns its index. The start date is the first day of the start year.
func (in LocationInput) Location(companyID int64) Location {
	building, street := SplitAddress(in.Address, in.AddressSecondary)
	return Location{
		CompanyID:      companyID,
		Nickname:       strings.TrimSpace(in.Name),
		BuildingNumber: building,
		Street:         street,
		City:           strings.TrimSpace(in.City),
		State:          in.State,
		Zip:            strings.TrimSpace(in.Zip),
		SegmentID:      in.Segment,
		CategoryID:     in.Category,
		StartDate:      time.Date(in.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func stringField(values map[string]any, name string) string {
	switch v := values[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func intField(values map[string]any, name string) (int64, error) {
	switch v := values[name].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			break
		}
		return int64(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, nil
		}
	case nil:
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidInput, name)
	}
	return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, name)
}

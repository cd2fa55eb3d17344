package onboarding

import "time"

// User is an account known to the identity provider.
type User struct {
	ID         int64  `json:"id"`
	IdentityID string `json:"identityId"`
	CompanyID  *int64 `json:"companyId,omitempty"`
}

// HasCompany reports whether a company has been assigned to the user.
func (u User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID > 0
}

// Company is the organization a user represents.
type Company struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	BuildingNumber string `json:"buildingNumber"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	RepFirstName   string `json:"repFirstName"`
	RepLastName    string `json:"repLastName"`
	RepPhone       string `json:"repPhone"`
	RepEmail       string `json:"repEmail"`
}

// Location is a business site of a company.
type Location struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"companyId"`
	Nickname       string    `json:"nickname"`
	Index          int       `json:"index"`
	BuildingNumber string    `json:"buildingNumber"`
	Street         string    `json:"street"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Zip            string    `json:"zip"`
	SegmentID      int64     `json:"segmentId"`
	CategoryID     int64     `json:"categoryId"`
	StartDate      time.Time `json:"startDate"`
}

// Segment groups categories of business used for benchmarking.
type Segment struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Category is a business category within a segment.
type Category struct {
	ID        int64  `json:"id"`
	SegmentID int64  `json:"segmentId"`
	Name      string `json:"name"`
}

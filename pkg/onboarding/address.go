package onboarding

import "strings"

const (
	missingAddress = "Could not get company address..."
	missingPhone   = "Could not get phone number..."
)

// SplitAddress turns the "address" and "address line 2" inputs into the
// stored building number and street. The building number is the text before
// the first space; the secondary line is appended to the street after a
// comma. An address without a space has no building number.
func SplitAddress(address, secondary string) (buildingNumber, street string) {
	address = strings.TrimSpace(address)
	if idx := strings.Index(address, " "); idx >= 0 {
		buildingNumber = strings.TrimSpace(address[:idx])
		street = strings.TrimSpace(address[idx+1:])
	} else {
		street = address
	}
	if secondary = strings.TrimSpace(secondary); secondary != "" {
		street += ", " + secondary
	}
	return buildingNumber, street
}

// JoinAddress reverses SplitAddress: the first comma separated part of street
// returns to the address line, the remainder to the secondary line.
func JoinAddress(buildingNumber, street string) (address, secondary string) {
	first, rest, _ := strings.Cut(street, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		first = strings.TrimSpace(street)
	}
	address = strings.TrimSpace(buildingNumber + " " + first)
	return address, strings.TrimSpace(rest)
}

// StreetAddress is the building number followed by the street.
func (c Company) StreetAddress() string {
	return streetAddress(c.BuildingNumber, c.Street)
}

// FullAddress formats the company address on one line, or a placeholder when
// any part is missing.
func (c Company) FullAddress() string {
	return fullAddress(c.BuildingNumber, c.Street, c.City, c.State, c.Zip)
}

// Phone formats the representative phone number.
func (c Company) Phone() string {
	return FormatPhone(c.RepPhone)
}

// Defaults returns the company's address as location form values, used to
// prefill a location step.
func (c Company) Defaults() map[string]string {
	address, secondary := JoinAddress(c.BuildingNumber, c.Street)
	return map[string]string{
		"name":             c.Name,
		"address":          address,
		"addressSecondary": secondary,
		"city":             c.City,
		"state":            c.State,
		"zip":              c.Zip,
	}
}

// StreetAddress is the building number followed by the street.
func (l Location) StreetAddress() string {
	return streetAddress(l.BuildingNumber, l.Street)
}

// FullAddress formats the location address on one line.
func (l Location) FullAddress() string {
	return fullAddress(l.BuildingNumber, l.Street, l.City, l.State, l.Zip)
}

func streetAddress(buildingNumber, street string) string {
	return strings.TrimSpace(buildingNumber + " " + street)
}

func fullAddress(buildingNumber, street, city, state, zip string) string {
	if strings.TrimSpace(street) == "" || city == "" || state == "" || zip == "" {
		return missingAddress
	}
	return streetAddress(buildingNumber, street) + ", " + city + ", " + state + " " + zip
}

// FormatPhone renders the last ten ASCII digits of raw as "(303) 555-1234".
// Inputs with fewer than ten yield a placeholder.
func FormatPhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) < 10 {
		return missingPhone
	}
	digits = digits[len(digits)-10:]
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

package checkout

import (
	"strings"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// NormalizeAddress parses a raw address record into the canonical shape.
// Only fields the record leaves empty are filled; explicit building and
// apartment numbers are kept. Parsing is best effort and never fails.
// City, postal code and country pass through, with country defaulting to
// homeCountry.
func NormalizeAddress(raw models.RawAddress, homeCountry string) models.Address {
	addr := models.Address{
		FirstName:       strings.TrimSpace(raw.FirstName),
		LastName:        strings.TrimSpace(raw.LastName),
		Company:         strings.TrimSpace(raw.Company),
		Email:           strings.TrimSpace(raw.Email),
		Phone:           strings.TrimSpace(raw.Phone),
		Street:          strings.TrimSpace(raw.Street),
		BuildingNumber:  strings.TrimSpace(raw.BuildingNumber),
		ApartmentNumber: strings.TrimSpace(raw.ApartmentNumber),
		City:            raw.City,
		PostalCode:      raw.PostalCode,
		Country:         raw.Country,
	}
	if addr.Country == "" {
		addr.Country = homeCountry
	}

	line2 := strings.TrimSpace(raw.Address2)
	switch {
	case addr.BuildingNumber != "":
		// explicit building number, street is kept as entered
	case line2 != "":
		building, apartment := splitSlash(line2)
		addr.BuildingNumber = building
		fillApartment(&addr, apartment)
	case strings.Contains(addr.Street, ","):
		street, rest, _ := strings.Cut(addr.Street, ",")
		addr.Street = strings.TrimSpace(street)
		building, apartment := splitSlash(rest)
		addr.BuildingNumber = building
		fillApartment(&addr, apartment)
	default:
		fields := strings.Fields(addr.Street)
		if len(fields) > 1 {
			addr.BuildingNumber = fields[len(fields)-1]
			addr.Street = strings.Join(fields[:len(fields)-1], " ")
		}
	}

	if addr.ApartmentNumber == "" && strings.Contains(addr.BuildingNumber, "/") {
		building, apartment := splitSlash(addr.BuildingNumber)
		addr.BuildingNumber = building
		addr.ApartmentNumber = apartment
	}
	return addr
}

// splitSlash splits "22/4" into "22" and "4". Tokens past the second are
// dropped.
func splitSlash(s string) (string, string) {
	parts := strings.Split(s, "/")
	first := strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return first, ""
	}
	return first, strings.TrimSpace(parts[1])
}

func fillApartment(addr *models.Address, apartment string) {
	if addr.ApartmentNumber == "" {
		addr.ApartmentNumber = apartment
	}
}

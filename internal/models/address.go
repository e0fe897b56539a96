package models

// RawAddress is an address record as received from a checkout form or a
// saved customer profile. Street may hold legacy free text such as
// "Jasna, 22/4".
type RawAddress struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Company         string `json:"company,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Street          string `json:"street"`
	Address2        string `json:"address2,omitempty"`
	BuildingNumber  string `json:"buildingNumber,omitempty"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country,omitempty"`
}

// Address is the canonical address shape used by the order assembler.
type Address struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Company         string `json:"company,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Street          string `json:"street"`
	BuildingNumber  string `json:"buildingNumber"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

package models

// Address represents a postal address shared by every person living at it.
// The (City, StreetName, HouseNumber, FlatNumber) tuple is unique.
type Address struct {
	ID          int    `json:"id"`
	City        string `json:"city"`
	StreetName  string `json:"streetName"`
	HouseNumber int    `json:"houseNumber"`
	FlatNumber  int    `json:"flatNumber"`
}

// AddressKey is the de-duplication key of an address
type AddressKey struct {
	City        string
	StreetName  string
	HouseNumber int
	FlatNumber  int
}

// Key returns the de-duplication key of the address
func (a *Address) Key() AddressKey {
	return AddressKey{
		City:        a.City,
		StreetName:  a.StreetName,
		HouseNumber: a.HouseNumber,
		FlatNumber:  a.FlatNumber,
	}
}

package entity

// AddressDetails is the structured breakdown a geocoding provider attaches to
// a candidate address. Any field may be empty.
type AddressDetails struct {
	Suburb        string
	Neighbourhood string
	Village       string
	Road          string
	Quarter       string
	Locality      string
	City          string
	Town          string
	Municipality  string
	County        string
	State         string
	Country       string
}

type AddressSuggestion struct {
	PlaceID     string
	DisplayName string
	ShortLabel  string
	Lat         string
	Lon         string
	Address     *AddressDetails
}

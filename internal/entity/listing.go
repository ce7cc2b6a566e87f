package entity

import "time"

type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
)

type Geolocation struct {
	Lat float64
	Lng float64
}

type Listing struct {
	ID              string
	Type            ListingType
	Name            string
	Address         string
	RegularPrice    float64
	Offer           bool
	DiscountedPrice float64
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	ImgURLs         []string
	Geolocation     *Geolocation
	Contact         string
	UserRef         string
	Timestamp       time.Time
}

// EffectivePrice is the price used for filtering and sorting: the discounted
// price while an offer is active, the regular price otherwise.
func (l *Listing) EffectivePrice() float64 {
	if l.Offer {
		return l.DiscountedPrice
	}
	return l.RegularPrice
}

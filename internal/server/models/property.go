package models

import "time"

// Property types accepted by the listing schema.
const (
	PropertyTypeRoom      = "room"
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
)

// Property is a rental listing owned by exactly one user.
type Property struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Price         int64     `json:"price"`
	Location      string    `json:"location"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Description   *string   `json:"description"`
	Features      []string  `json:"features"`
	Images        []string  `json:"images"`
	Available     bool      `json:"available"`
	LandlordPhone string    `json:"landlordPhone"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PropertyFilter narrows List. Nil or empty fields do not filter.
type PropertyFilter struct {
	Available *bool
	Type      string
	Location  string
}

// NewProperty is a validated creation request. Owner comes from the session.
type NewProperty struct {
	Title         string
	Type          string
	Price         int64
	Location      string
	Bedrooms      int
	Bathrooms     int
	Description   *string
	Features      []string
	Images        []string
	Available     bool
	LandlordPhone string
}

// PropertyPatch holds the fields to change; nil fields are left untouched.
type PropertyPatch struct {
	Title         *string
	Type          *string
	Price         *int64
	Location      *string
	Bedrooms      *int
	Bathrooms     *int
	Description   *string
	Features      []string
	Images        []string
	Available     *bool
	LandlordPhone *string
}

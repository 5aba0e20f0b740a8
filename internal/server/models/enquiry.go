package models

import "time"

// Enquiry is a visitor's contact request against one property.
type Enquiry struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Whatsapp   bool      `json:"whatsapp"`
	Message    *string   `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewEnquiry struct {
	PropertyID string
	Name       string
	Phone      string
	Whatsapp   bool
	Message    *string
}

package services

// SignupInput is the body of POST /api/auth/signup.
type SignupInput struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreatePropertyInput is the body of POST /api/properties. Any owner sent
// by the client is ignored.
type CreatePropertyInput struct {
	Title         string   `json:"title" validate:"required"`
	Type          string   `json:"type" validate:"required,oneof=room apartment house"`
	Price         *int64   `json:"price" validate:"required,gte=0"`
	Location      string   `json:"location" validate:"required"`
	Bedrooms      *int     `json:"bedrooms" validate:"omitnil,gte=0"`
	Bathrooms     *int     `json:"bathrooms" validate:"omitnil,gte=0"`
	Description   *string  `json:"description"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	Available     *bool    `json:"available"`
	LandlordPhone string   `json:"landlordPhone" validate:"required"`
}

// UpdatePropertyInput is the body of PATCH /api/properties/{id}. Absent
// fields are left unchanged.
type UpdatePropertyInput struct {
	Title         *string  `json:"title" validate:"omitnil,min=1"`
	Type          *string  `json:"type" validate:"omitnil,oneof=room apartment house"`
	Price         *int64   `json:"price" validate:"omitnil,gte=0"`
	Location      *string  `json:"location" validate:"omitnil,min=1"`
	Bedrooms      *int     `json:"bedrooms" validate:"omitnil,gte=0"`
	Bathrooms     *int     `json:"bathrooms" validate:"omitnil,gte=0"`
	Description   *string  `json:"description"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	Available     *bool    `json:"available"`
	LandlordPhone *string  `json:"landlordPhone" validate:"omitnil,min=1"`
}

// CreateEnquiryInput is the body of POST /api/enquiries.
type CreateEnquiryInput struct {
	PropertyID string  `json:"propertyId" validate:"required,uuid"`
	Name       string  `json:"name" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Whatsapp   bool    `json:"whatsapp"`
	Message    *string `json:"message"`
}

// Package models defines server-side data models persisted in the database
// and returned by the JSON API.
package models

import "time"

// User is a registered landlord. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     *string   `json:"fullName"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the subset of User returned by the auth endpoints.
type PublicUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// Public strips timestamps and the hash.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone}
}

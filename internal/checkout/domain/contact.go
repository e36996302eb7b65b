package domain

import (
	"errors"
	"strings"
)

var ErrPhoneRequired = errors.New("phone number is required")

// Contact is what the shopper leaves for the merchant to reach them.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func NewContact(email, phone string) Contact {
	return Contact{Email: strings.TrimSpace(email), Phone: strings.TrimSpace(phone)}
}

func (c Contact) Validate(requirePhone bool) error {
	if requirePhone && c.Phone == "" {
		return ErrPhoneRequired
	}
	return nil
}

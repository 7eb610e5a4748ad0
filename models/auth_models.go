package models

import (
	"net/mail"
	"regexp"
	"strings"
)

// SignUpRequest defines the structure for the registration request body.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	State       string `json:"state"`
	PhoneNumber string `json:"phoneNumber"`
}

// SignInRequest defines the structure for the login request body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is returned after sign-up, sign-in and by the session endpoint.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const MinPasswordLength = 6

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Normalize trims whitespace and lowercases the email.
func (r *SignUpRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Gender = strings.TrimSpace(r.Gender)
	r.State = strings.TrimSpace(r.State)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

// Validate checks the sign-up form the same way the registration page does.
func (r *SignUpRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.Name == "" || r.Gender == "" || r.State == "" || r.PhoneNumber == "" {
		return invalid("All fields are required")
	}
	if !phonePattern.MatchString(r.PhoneNumber) {
		return invalid("Phone number must be a 10-digit number")
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return invalid("Invalid email format. Please check your email.")
	}
	if len(r.Password) < MinPasswordLength {
		return invalid("Password is too weak. It should be at least 6 characters.")
	}
	if !contains(Genders, r.Gender) {
		return invalid("Gender must be Male, Female or Other")
	}
	if !contains(IndianStates, r.State) {
		return invalid("Please select a valid state")
	}
	return nil
}

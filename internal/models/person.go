package models

import (
	"io"
	"strings"
)

// Person represents the personal profile attached to exactly one user.
// ID equals the owning user's ID.
type Person struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Surname        string   `json:"surname"`
	PersonalNumber string   `json:"personalNumber"`
	PhoneNumber    string   `json:"phoneNumber"`
	Email          string   `json:"email"`
	ProfilePicture []byte   `json:"profilePicture"`
	AddressID      int      `json:"-"`
	Address        *Address `json:"address"`
}

// Upload is an uploaded file together with its declared name
type Upload struct {
	Filename string
	Content  io.Reader
}

// ProfileInput represents the data needed to attach a new profile
type ProfileInput struct {
	Name           string
	Surname        string
	PersonalNumber string
	PhoneNumber    string
	Email          string
	ProfilePicture *Upload
	City           string
	StreetName     string
	HouseNumber    int
	FlatNumber     int
}

// ProfilePatch represents a sparse profile update.
//
// A string field counts as supplied only when it is not blank, a number only when it is positive.
// Anything else leaves the stored value untouched.
type ProfilePatch struct {
	Name           *string
	Surname        *string
	PersonalNumber *string
	PhoneNumber    *string
	Email          *string
	ProfilePicture *Upload
	City           *string
	StreetName     *string
	HouseNumber    *int
	FlatNumber     *int
}

// HasText reports whether an optional string carries a non-blank value
func HasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// HasPositive reports whether an optional number carries a positive value
func HasPositive(n *int) bool {
	return n != nil && *n > 0
}

// TouchesAddress reports whether the patch supplies any address field
func (p *ProfilePatch) TouchesAddress() bool {
	return HasText(p.City) || HasText(p.StreetName) || HasPositive(p.HouseNumber) || HasPositive(p.FlatNumber)
}

// OverlayAddress returns the address key obtained by applying the supplied address fields to current
func (p *ProfilePatch) OverlayAddress(current AddressKey) AddressKey {
	target := current
	if HasText(p.City) {
		target.City = *p.City
	}
	if HasText(p.StreetName) {
		target.StreetName = *p.StreetName
	}
	if HasPositive(p.HouseNumber) {
		target.HouseNumber = *p.HouseNumber
	}
	if HasPositive(p.FlatNumber) {
		target.FlatNumber = *p.FlatNumber
	}
	return target
}

// ApplyPersonFields copies the supplied non-address fields onto the person
func (p *ProfilePatch) ApplyPersonFields(person *Person) {
	if HasText(p.Name) {
		person.Name = *p.Name
	}
	if HasText(p.Surname) {
		person.Surname = *p.Surname
	}
	if HasText(p.PersonalNumber) {
		person.PersonalNumber = *p.PersonalNumber
	}
	if HasText(p.PhoneNumber) {
		person.PhoneNumber = *p.PhoneNumber
	}
	if HasText(p.Email) {
		person.Email = *p.Email
	}
}

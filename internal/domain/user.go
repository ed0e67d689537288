// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen    = 36
	MaxFirstnameLen = 36
	MaxLastnameLen  = 36
)

var (
	ErrNameTooLong = errors.New("name too long")
	ErrNameEmpty   = errors.New("name empty")
)

type UserID string

type User struct {
	ID        UserID `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname,omitempty"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(firstname, lastname string) (*User, error) {
	if len(firstname) == 0 {
		return nil, ErrNameEmpty
	}
	if len(firstname) > MaxFirstnameLen || len(lastname) > MaxLastnameLen {
		return nil, ErrNameTooLong
	}
	id := UserID(uuid.NewString())
	return &User{ID: id, Firstname: firstname, Lastname: lastname}, nil
}

func (u *User) SetName(firstname, lastname string) error {
	if len(firstname) == 0 {
		return ErrNameEmpty
	}
	if len(firstname) > MaxFirstnameLen || len(lastname) > MaxLastnameLen {
		return ErrNameTooLong
	}
	u.Firstname = firstname
	u.Lastname = lastname
	return nil
}

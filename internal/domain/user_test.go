package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUserValidation(t *testing.T) {
	if _, err := NewUser("", "Smith"); !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("empty firstname must fail, got %v", err)
	}
	if _, err := NewUser(strings.Repeat("a", MaxFirstnameLen+1), ""); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("oversized firstname must fail, got %v", err)
	}
	u, err := NewUser("Alice", "Smith")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.ID == "" || u.Firstname != "Alice" || u.Lastname != "Smith" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestSetName(t *testing.T) {
	u, _ := NewUser("Alice", "")
	if err := u.SetName("", ""); !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("empty rename must fail, got %v", err)
	}
	if err := u.SetName("Alicia", "Jones"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	if u.Firstname != "Alicia" || u.Lastname != "Jones" {
		t.Fatalf("rename not applied: %+v", u)
	}
}

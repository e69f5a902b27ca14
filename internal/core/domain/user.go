package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// User is a row of the B-tree indexed user table.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// String renders the user the way the table's search dialog shows it.
func (u User) String() string {
	return fmt.Sprintf("User{id=%d, email='%s', username='%s', password='%s'}",
		u.ID, u.Email, u.Username, u.Password)
}

// Validate checks that every field is present and valid UTF-8.
func (u User) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"email", u.Email},
		{"username", u.Username},
		{"password", u.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s is not valid %s", ErrInvalidInput, f.name, BuildEncoding)
		}
	}
	return nil
}

// UserPage is one page of the user table in ID order.
type UserPage struct {
	Users []User `json:"users"`
	Index int    `json:"index"`
	Size  int    `json:"size"`
	Total int    `json:"total"`
	Pages int    `json:"pages"`
}

// PageCount returns how many pages of the given size hold total rows.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// UserLookup is the result of an indexed lookup.
type UserLookup struct {
	User User `json:"user"`
	// Comparisons is the number of key comparisons the B-tree made.
	Comparisons int `json:"comparisons"`
}

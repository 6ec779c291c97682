package entity

import "strings"

// UserIdentifier selects a user by exactly one of id, username or email.
// The variants are ByID, ByUsername and ByEmail.
type UserIdentifier interface {
	// Column is the users column the identifier matches on.
	Column() string
	Value() string
	isUserIdentifier()
}

type ByID string

func (i ByID) Column() string  { return "id" }
func (i ByID) Value() string   { return string(i) }
func (ByID) isUserIdentifier() {}

type ByUsername string

func (i ByUsername) Column() string  { return "username" }
func (i ByUsername) Value() string   { return string(i) }
func (ByUsername) isUserIdentifier() {}

// ByEmail matches case-insensitively; emails are stored lower-cased.
type ByEmail string

func (i ByEmail) Column() string  { return "email" }
func (i ByEmail) Value() string   { return strings.ToLower(string(i)) }
func (ByEmail) isUserIdentifier() {}

// ParseLoginIdentifier treats anything containing "@" as an email and
// everything else as a username.
func ParseLoginIdentifier(s string) UserIdentifier {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return ByEmail(s)
	}
	return ByUsername(s)
}

package models

import "strings"

// Audiences
const (
	AudienceStaff  = "staff"
	AudienceClient = "client"
)

// Recipient is one delivery target with an optional display name.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecipientSet holds the two disjoint audiences resolved for one event.
// Order is insertion order; addresses are deduplicated case-insensitively
// with the first-seen display name winning.
type RecipientSet struct {
	Staff  []Recipient `json:"staff"`
	Client []Recipient `json:"client"`
}

// Empty reports whether neither audience has any recipients.
func (s *RecipientSet) Empty() bool {
	return len(s.Staff) == 0 && len(s.Client) == 0
}

// ContainsEmail reports whether the given list already holds the address,
// compared case-insensitively.
func ContainsEmail(list []Recipient, email string) bool {
	for _, r := range list {
		if strings.EqualFold(r.Email, email) {
			return true
		}
	}
	return false
}

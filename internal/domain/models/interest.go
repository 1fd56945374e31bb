// internal/domain/models/interest.go
package models

// Interest is what a new member selected on the onboarding form.
type Interest string

const (
	InterestLeading      Interest = "leading"
	InterestVolunteering Interest = "volunteering"
	InterestAttending    Interest = "attending"
)

// AllInterests contains the interest options offered on the onboarding form.
var AllInterests = []Interest{
	InterestLeading,
	InterestVolunteering,
	InterestAttending,
}

// IsValidInterest checks if a value is a recognized interest category.
func IsValidInterest(value string) bool {
	for _, i := range AllInterests {
		if string(i) == value {
			return true
		}
	}
	return false
}

package entities

import "time"

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// Opposite returns the other attribute group used for pairing fallback.
func (g Gender) Opposite() Gender {
	if g == GenderFemale {
		return GenderMale
	}
	return GenderFemale
}

func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// Character is the persisted voting candidate. CharacterID is assigned by the
// external directory and never changes after enlistment. Voted is a one-shot
// settlement flag: once true the record leaves the candidate pool for good.
type Character struct {
	CharacterID string
	Name        string
	Race        string
	Bloodline   string
	Gender      Gender
	Wins        int
	Losses      int
	Voted       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Candidate reports whether the character is still eligible for pairing.
func (c Character) Candidate() bool {
	return !c.Voted
}

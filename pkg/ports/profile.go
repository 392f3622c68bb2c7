package ports

import "context"

// Profile is the resolved identity of a chat participant.
type Profile struct {
	LastName  string
	FirstName string
}

// DisplayName formats the profile the way exported rows expect it.
func (p Profile) DisplayName() string {
	return p.LastName + " " + p.FirstName
}

// ProfileDirectory resolves a respondent identity to a profile.
type ProfileDirectory interface {
	Resolve(ctx context.Context, identity string) (Profile, error)
}

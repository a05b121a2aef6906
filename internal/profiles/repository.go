package profiles

import "context"

// Repository persists agent profiles addressed by pk.
type Repository interface {
	// Save stores p, overwriting any profile with the same pk, and returns
	// the pk. An empty pk is replaced by a generated UUID.
	Save(ctx context.Context, p Profile) (string, error)
	// Get returns ErrProfileNotFound when no profile has the given pk.
	Get(ctx context.Context, pk string) (Profile, error)
}

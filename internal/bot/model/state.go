package model

import "context"

// WelcomeState is the per-user record tracked across turns. The flag is
// monotonic: it flips from false to true on the user's first message and is
// never cleared afterwards.
type WelcomeState struct {
	DidBotWelcomeUser bool `json:"didBotWelcomeUser"`
}

type StateRepository interface {
	// Get retrieves the welcome state for the given user. A user with no
	// stored record gets the zero value, not an error.
	Get(ctx context.Context, userID string) (WelcomeState, error)

	// Save persists the welcome state for the given user. The processor
	// calls this once per message turn whether or not the record changed.
	Save(ctx context.Context, userID string, state WelcomeState) error
}

package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, passkeys, OAuth, etc.) without changing the handler code.
type Authenticator interface {
	// Register creates a new user account. The credential format
	// depends on the implementation (password, OAuth token, ...).
	Register(ctx context.Context, email, username, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the
	// user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// UpdateProfile changes a user's email and/or username. Empty
	// arguments leave the corresponding field untouched.
	UpdateProfile(ctx context.Context, userID, email, username string) (*models.User, error)

	// ChangePassword replaces the user's credential after verifying
	// the current one.
	ChangePassword(ctx context.Context, userID, oldCredential, newCredential string) error

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}

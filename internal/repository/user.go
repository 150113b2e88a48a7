package repository

import (
	"context"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// UserRepository manages user and OTP records.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByNameInsensitive resolves a display name case-insensitively;
	// used for @mention lookup.
	FindByNameInsensitive(ctx context.Context, name string) (*domain.User, error)

	SaveOTP(ctx context.Context, otp *domain.OTP) error

	// LatestOTP returns the most recent code issued for the email, or
	// ErrNotFound.
	LatestOTP(ctx context.Context, email string) (*domain.OTP, error)

	DeleteOTPs(ctx context.Context, email string) error
}

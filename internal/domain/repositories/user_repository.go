package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/domain/entities"
)

// ChallengeSecrets is the restricted OTP view of an account. Only the
// setup flow may load it; list/get paths never include these fields.
type ChallengeSecrets struct {
	OTP        string
	Expiry     time.Time
	HasOTP     bool
	SetupState entities.SetupState
}

// UserRepository defines account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role entities.UserRole) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetSecrets loads the outstanding challenge fields for one account.
	GetSecrets(ctx context.Context, id uuid.UUID) (*ChallengeSecrets, error)

	// SetChallenge stores a new OTP with its absolute expiry,
	// overwriting any prior challenge, and moves the setup state to
	// challenge_issued unless the account already verified.
	SetChallenge(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error

	// ConsumeChallenge clears the OTP fields, marks the account
	// verified and advances the state, but only if the stored code
	// still equals the submitted one. The update is conditional so two
	// concurrent validations cannot both succeed: the loser observes
	// consumed=false.
	ConsumeChallenge(ctx context.Context, id uuid.UUID, code string) (consumed bool, err error)

	// ClearExpiredChallenges drops challenges past their expiry and
	// regresses challenge_issued accounts back to unverified.
	ClearExpiredChallenges(ctx context.Context, now time.Time) (int64, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, name, username, photo string) error

	// Unlock stores the final credential and lifts the forced-change
	// flag, moving the account to the unlocked state.
	Unlock(ctx context.Context, id uuid.UUID, passwordHash string) error

	List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error)
	CountByRole(ctx context.Context, role entities.UserRole) (int64, error)
	CountByRoleCreatedBefore(ctx context.Context, role entities.UserRole, cutoff time.Time) (int64, error)

	SetBannedByEmail(ctx context.Context, email string, banned bool) (int64, error)
	SetBannedByEmails(ctx context.Context, emails []string, banned bool) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteUnverified(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ExpertRepository defines expert-profile data operations
type ExpertRepository interface {
	CountPendingVerification(ctx context.Context) (int64, error)
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/crypto"
	"mindnamo-admin.backend/pkg/jwt"
	"mindnamo-admin.backend/pkg/logger"
	"mindnamo-admin.backend/pkg/redis"
)

// Notifier delivers account mail. Best effort only: the setup flow
// never retries and never rolls back state on delivery failure.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// ChallengeLimiter bounds OTP issuance and sign-in attempts per key.
type ChallengeLimiter interface {
	Limit(ctx context.Context, key string) redis.LimitResult
}

// SetupUsecase drives the first-login account setup flow: challenge
// issuance, email verification, the optional profile step and the
// final password change that unlocks the account. Every operation
// derives its precondition from persisted state, so a client that
// reloads mid-flow resumes at the correct step.
type SetupUsecase struct {
	userRepo  repositories.UserRepository
	notifier  Notifier
	limiter   ChallengeLimiter
	jwtSvc    *jwt.JWTService
	otpExpiry time.Duration
}

// NewSetupUsecase creates a new setup usecase
func NewSetupUsecase(
	userRepo repositories.UserRepository,
	notifier Notifier,
	limiter ChallengeLimiter,
	jwtSvc *jwt.JWTService,
	otpExpiry time.Duration,
) *SetupUsecase {
	return &SetupUsecase{
		userRepo:  userRepo,
		notifier:  notifier,
		limiter:   limiter,
		jwtSvc:    jwtSvc,
		otpExpiry: otpExpiry,
	}
}

// IssueChallenge generates a fresh verification code for the account,
// overwriting any prior one, and requests delivery. The code counts as
// issued once stored; a notifier failure is logged, not propagated.
func (u *SetupUsecase) IssueChallenge(ctx context.Context, accountID uuid.UUID) error {
	if res := u.limiter.Limit(ctx, "otp:"+accountID.String()); !res.Success {
		return domainerrors.ErrRateLimited
	}

	user, err := u.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	code, err := crypto.GenerateOTP()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(u.otpExpiry)

	if err := u.userRepo.SetChallenge(ctx, accountID, code, expiry); err != nil {
		return err
	}

	if _, err := u.notifier.Send(ctx, user.Email, "Your Verification Code", otpEmailHTML(code, u.otpExpiry)); err != nil {
		logger.Warn(ctx, "verification code stored but delivery failed",
			zap.String("account_id", accountID.String()), zap.Error(err))
	}
	return nil
}

// ValidateChallenge checks a submitted code against the outstanding
// challenge. Expiry is checked before the value so a stale code never
// validates even when it matches. Consumption is atomic: of two
// concurrent submissions only one succeeds, the other observes the
// cleared challenge.
func (u *SetupUsecase) ValidateChallenge(ctx context.Context, accountID uuid.UUID, code string) error {
	secrets, err := u.userRepo.GetSecrets(ctx, accountID)
	if err != nil {
		return err
	}
	if !secrets.HasOTP {
		return domainerrors.ErrNoActiveChallenge
	}
	if time.Now().After(secrets.Expiry) {
		return domainerrors.ErrChallengeExpired
	}
	if secrets.OTP != code {
		return domainerrors.ErrCodeMismatch
	}

	consumed, err := u.userRepo.ConsumeChallenge(ctx, accountID, code)
	if err != nil {
		return err
	}
	if !consumed {
		// A concurrent validation won the race and cleared the fields.
		return domainerrors.ErrNoActiveChallenge
	}
	return nil
}

// UpdateProfile applies the optional profile step. Each field is
// independently settable and verification/lock state is untouched.
// Handle uniqueness is re-checked immediately before commit, with the
// storage unique index closing the remaining race window.
func (u *SetupUsecase) UpdateProfile(ctx context.Context, accountID uuid.UUID, input *entities.UpdateProfileInput) error {
	user, err := u.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	username := input.Username
	if username != "" && username == user.Username.String {
		username = "" // unchanged, skip the uniqueness round-trip
	}
	if username != "" {
		existing, err := u.userRepo.GetByUsername(ctx, username)
		if err != nil && err != domainerrors.ErrNotFound {
			return err
		}
		if existing != nil && existing.ID != accountID {
			return domainerrors.ErrHandleTaken
		}
	}

	return u.userRepo.UpdateProfile(ctx, accountID, input.Name, username, input.Photo)
}

// FinalizeSetup stores the user-chosen credential and unlocks the
// account. It requires the persisted state to have reached email
// verification; request ordering alone is never trusted. Returns a
// fresh token pair so the session claim updates without
// re-authentication.
func (u *SetupUsecase) FinalizeSetup(ctx context.Context, accountID uuid.UUID, newPassword string) (*jwt.TokenPair, error) {
	user, err := u.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	switch user.SetupState {
	case entities.SetupStateEmailVerified, entities.SetupStateUnlocked:
	default:
		return nil, domainerrors.ErrSetupIncomplete
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.Unlock(ctx, accountID, hash); err != nil {
		return nil, err
	}

	return u.jwtSvc.GenerateTokenPair(user.ID, user.Email, string(user.Role), false)
}

// GetChallengeableState returns the non-secret projection used to
// pre-fill a resuming setup client. Credential and OTP fields are
// never exposed.
func (u *SetupUsecase) GetChallengeableState(ctx context.Context, accountID uuid.UUID) (*entities.SetupProjection, error) {
	user, err := u.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &entities.SetupProjection{
		Name:       user.Name,
		Username:   user.Username,
		Email:      user.Email,
		Photo:      user.Photo,
		SetupState: user.SetupState,
	}, nil
}

func otpEmailHTML(code string, validity time.Duration) string {
	return fmt.Sprintf(`
    <div style="font-family: sans-serif; padding: 20px; text-align: center; border: 1px solid #eee; border-radius: 10px;">
      <h2 style="color: #333;">Verify your Account</h2>
      <p style="color: #666;">Your secure verification code is:</p>
      <div style="background: #f4f4f5; padding: 15px; margin: 20px 0; border-radius: 8px; display: inline-block;">
        <span style="font-size: 24px; font-weight: bold; letter-spacing: 8px; color: #000;">%s</span>
      </div>
      <p style="color: #999; font-size: 12px;">Valid for %d minutes.</p>
    </div>`, code, int(validity.Minutes()))
}

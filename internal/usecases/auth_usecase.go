package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/crypto"
	"mindnamo-admin.backend/pkg/jwt"
)

// AuthUsecase handles admin sign-in and token refresh.
type AuthUsecase struct {
	userRepo repositories.UserRepository
	limiter  ChallengeLimiter
	jwtSvc   *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, limiter ChallengeLimiter, jwtSvc *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		limiter:  limiter,
		jwtSvc:   jwtSvc,
	}
}

// Login authenticates an admin by email and password. Attempts are rate
// limited per email before any storage lookup, and a wrong password and
// an unknown email are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.User, *jwt.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if res := u.limiter.Limit(ctx, "signin:"+email); !res.Success {
		return nil, nil, domainerrors.ErrRateLimited
	}

	user, err := u.userRepo.GetByEmailAndRole(ctx, email, entities.UserRoleAdmin)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, nil, domainerrors.ErrAccountSuspended
	}

	pair, err := u.jwtSvc.GenerateTokenPair(user.ID, user.Email, string(user.Role), user.ForcePasswordChange)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. Claims
// are rebuilt from storage so lock-state changes since issuance take
// effect on the next pair.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if user.IsBanned {
		return nil, domainerrors.ErrAccountSuspended
	}

	return u.jwtSvc.GenerateTokenPair(user.ID, user.Email, string(user.Role), user.ForcePasswordChange)
}

// GetUserByID returns the account behind an authenticated session.
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

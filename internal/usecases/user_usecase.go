package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/pkg/crypto"
	"mindnamo-admin.backend/pkg/logger"
	"mindnamo-admin.backend/pkg/utils"
)

// handleRetries bounds how often provisioning retries a colliding
// generated handle before giving up.
const handleRetries = 5

// UserUsecase covers admin-side account management: provisioning with
// generated credentials, listing, suspension and removal.
type UserUsecase struct {
	userRepo repositories.UserRepository
	notifier Notifier
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository, notifier Notifier) *UserUsecase {
	return &UserUsecase{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// CreateUser provisions an account with a generated handle and a
// one-time credential. The credential is returned exactly once and
// never stored in clear; the account starts locked behind the setup
// flow.
func (u *UserUsecase) CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.ProvisionedCredentials, error) {
	if !entities.ValidRole(input.Role) {
		return nil, domainerrors.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := u.userRepo.GetByEmailAndRole(ctx, email, input.Role); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	username, err := u.freeHandle(ctx)
	if err != nil {
		return nil, err
	}

	tempPassword, err := crypto.GenerateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := crypto.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = utils.GenerateDisplayName()
	}

	user := &entities.User{
		ID:                  utils.GenerateUUIDv7(),
		Email:               email,
		Username:            null.StringFrom(username),
		Name:                null.StringFrom(name),
		PasswordHash:        hash,
		Role:                input.Role,
		ForcePasswordChange: true,
		SetupState:          entities.SetupStateUnverified,
		Settings:            entities.DefaultSettings(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	creds := &entities.ProvisionedCredentials{
		Email:        email,
		Username:     username,
		TempPassword: tempPassword,
		Role:         input.Role,
		Name:         name,
	}
	if _, err := u.notifier.Send(ctx, email, "Your Account Credentials", credentialsEmailHTML(creds)); err != nil {
		logger.Warn(ctx, "account provisioned but credential mail failed",
			zap.String("email", email), zap.Error(err))
	}
	return creds, nil
}

// freeHandle draws generated handles until one is unclaimed. The
// unique index on the column still backstops the race on Create.
func (u *UserUsecase) freeHandle(ctx context.Context) (string, error) {
	for i := 0; i < handleRetries; i++ {
		handle := utils.GenerateHandle()
		_, err := u.userRepo.GetByUsername(ctx, handle)
		if err == domainerrors.ErrNotFound {
			return handle, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", domainerrors.ErrHandleTaken
}

// List returns a page of accounts matching the filter.
func (u *UserUsecase) List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = utils.DefaultPageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return u.userRepo.List(ctx, filter)
}

// SetBanned suspends or reinstates every account sharing the email,
// regardless of role. Suspension takes effect on the next token
// refresh.
func (u *UserUsecase) SetBanned(ctx context.Context, email string, banned bool) error {
	affected, err := u.userRepo.SetBannedByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), banned)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// BulkSetBanned applies SetBanned semantics to a batch of emails in one
// statement. Unknown emails are skipped, not errors.
func (u *UserUsecase) BulkSetBanned(ctx context.Context, emails []string, banned bool) (int64, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return 0, domainerrors.ErrInvalidInput
	}
	return u.userRepo.SetBannedByEmails(ctx, normalized, banned)
}

// Delete removes an account, but only while it never completed email
// verification. Verified accounts own live data and must be suspended
// instead.
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domainerrors.ErrDeleteVerified
	}
	return u.userRepo.Delete(ctx, id)
}

// BulkDelete removes the unverified accounts among ids and reports how
// many were dropped. Verified accounts in the batch are left untouched.
func (u *UserUsecase) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, domainerrors.ErrInvalidInput
	}
	return u.userRepo.DeleteUnverified(ctx, ids)
}

func credentialsEmailHTML(creds *entities.ProvisionedCredentials) string {
	var b strings.Builder
	b.WriteString(`
    <div style="font-family: sans-serif; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
      <h2 style="color: #333;">Welcome to Mind Namo</h2>
      <p style="color: #666;">An account has been created for you. Sign in with the credentials below and follow the setup steps to secure it.</p>
      <div style="background: #f4f4f5; padding: 15px; margin: 20px 0; border-radius: 8px;">`)
	b.WriteString(`<p style="margin: 4px 0;"><strong>Email:</strong> ` + creds.Email + `</p>`)
	b.WriteString(`<p style="margin: 4px 0;"><strong>Temporary password:</strong> ` + creds.TempPassword + `</p>`)
	b.WriteString(`</div>
      <p style="color: #999; font-size: 12px;">You will be asked to choose a new password on first sign-in.</p>
    </div>`)
	return b.String()
}

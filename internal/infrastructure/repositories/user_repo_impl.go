package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mindnamo-admin.backend/internal/domain/entities"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
	"mindnamo-admin.backend/internal/domain/repositories"
	"mindnamo-admin.backend/internal/infrastructure/models"
)

// UserRepository implements account data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new account
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                         user.ID,
		Email:                      strings.ToLower(user.Email),
		Username:                   user.Username.Ptr(),
		Mobile:                     user.Mobile.Ptr(),
		Name:                       user.Name.Ptr(),
		Photo:                      user.Photo.Ptr(),
		Bio:                        user.Bio.Ptr(),
		PasswordHash:               user.PasswordHash,
		Role:                       string(user.Role),
		IsBanned:                   user.IsBanned,
		IsVerified:                 user.IsVerified,
		ForcePasswordChange:        user.ForcePasswordChange,
		SetupState:                 string(user.SetupState),
		SettingsTheme:              user.Settings.Theme,
		SettingsNotifications:      user.Settings.Notifications,
		SettingsOnboardingComplete: user.Settings.OnboardingComplete,
		CreatedAt:                  user.CreatedAt,
		UpdatedAt:                  user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets an account by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetByEmailAndRole gets an account by email scoped to one role.
// Email uniqueness is per (email, role), so the pair identifies a row.
func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role entities.UserRole) (*entities.User, error) {
	var m models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND role = ?", strings.ToLower(email), string(role)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetByUsername gets an account by its unique handle
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetSecrets loads the outstanding challenge fields for one account
func (r *UserRepository) GetSecrets(ctx context.Context, id uuid.UUID) (*repositories.ChallengeSecrets, error) {
	var m models.User
	err := r.db.WithContext(ctx).
		Select("verification_otp", "verification_otp_expiry", "setup_state").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	s := &repositories.ChallengeSecrets{SetupState: entities.SetupState(m.SetupState)}
	if m.VerificationOTP != nil {
		s.HasOTP = true
		s.OTP = *m.VerificationOTP
	}
	if m.VerificationOTPExpiry != nil {
		s.Expiry = *m.VerificationOTPExpiry
	}
	return s, nil
}

// SetChallenge stores a new OTP, overwriting any prior challenge
func (r *UserRepository) SetChallenge(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verification_otp":        code,
			"verification_otp_expiry": expiry,
			"setup_state":             gorm.Expr("CASE WHEN is_verified THEN setup_state ELSE ? END", string(entities.SetupStateChallengeIssued)),
			"updated_at":              time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ConsumeChallenge atomically verifies and clears the stored code.
// The WHERE clause carries the submitted code so that of two racing
// validations only one row-update wins; the loser sees consumed=false.
func (r *UserRepository) ConsumeChallenge(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND verification_otp = ?", id, code).
		Updates(map[string]interface{}{
			"verification_otp":        nil,
			"verification_otp_expiry": nil,
			"is_verified":             true,
			"setup_state":             string(entities.SetupStateEmailVerified),
			"updated_at":              time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearExpiredChallenges drops stale codes and regresses unverified
// accounts so setup state never reports a dead challenge as live
func (r *UserRepository) ClearExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_otp IS NOT NULL AND verification_otp_expiry < ?", now).
		Updates(map[string]interface{}{
			"verification_otp":        nil,
			"verification_otp_expiry": nil,
			"setup_state":             gorm.Expr("CASE WHEN is_verified THEN setup_state ELSE ? END", string(entities.SetupStateUnverified)),
			"updated_at":              now,
		})
	return result.RowsAffected, result.Error
}

// UpdateProfile sets the provided profile fields; empty values are
// left untouched. Handle uniqueness is backstopped by the unique index.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, username, photo string) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if name != "" {
		updates["name"] = name
	}
	if username != "" {
		updates["username"] = username
	}
	if photo != "" {
		updates["photo"] = photo
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrHandleTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Unlock stores the final credential and lifts the forced change
func (r *UserRepository) Unlock(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":         passwordHash,
			"force_password_change": false,
			"setup_state":           string(entities.SetupStateUnlocked),
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists accounts with role/status/stale/search filters and pagination
func (r *UserRepository) List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.ExcludeID != uuid.Nil {
		query = query.Where("id <> ?", filter.ExcludeID)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}

	switch filter.Status {
	case "banned":
		query = query.Where("is_banned = ?", true)
	case "active":
		query = query.Where("is_banned = ? AND is_verified = ?", false, true)
	case "pending":
		query = query.Where("is_banned = ? AND is_verified = ?", false, false)
	}

	if filter.Stale {
		cutoff := time.Now().AddDate(0, -6, 0)
		query = query.Where("is_verified = ? AND created_at < ?", false, cutoff)
	}

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(COALESCE(name, '')) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(username, '')) LIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 25
	}

	var userModels []models.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&userModels).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toEntity(&userModels[i]))
	}
	return users, total, nil
}

// CountByRole counts accounts holding a role
func (r *UserRepository) CountByRole(ctx context.Context, role entities.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", string(role)).
		Count(&count).Error
	return count, err
}

// CountByRoleCreatedBefore counts accounts holding a role created before the cutoff
func (r *UserRepository) CountByRoleCreatedBefore(ctx context.Context, role entities.UserRole, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND created_at < ?", string(role), cutoff).
		Count(&count).Error
	return count, err
}

// SetBannedByEmail flips the ban flag for every role of one email
func (r *UserRepository) SetBannedByEmail(ctx context.Context, email string, banned bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		Updates(map[string]interface{}{"is_banned": banned, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// SetBannedByEmails flips the ban flag for a batch of emails
func (r *UserRepository) SetBannedByEmails(ctx context.Context, emails []string, banned bool) (int64, error) {
	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		lowered = append(lowered, strings.ToLower(e))
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email IN ?", lowered).
		Updates(map[string]interface{}{"is_banned": banned, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// Delete hard-deletes one account. The verified-account guard lives in
// the usecase; storage does what it is told.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteUnverified deletes the given accounts, skipping verified ones
func (r *UserRepository) DeleteUnverified(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id IN ? AND is_verified = ?", ids, false).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}

func toEntity(m *models.User) *entities.User {
	// OTP fields deliberately never cross into the entity here; the
	// setup flow reads them through GetSecrets only.
	return &entities.User{
		ID:                  m.ID,
		Email:               m.Email,
		Username:            null.StringFromPtr(m.Username),
		Mobile:              null.StringFromPtr(m.Mobile),
		Name:                null.StringFromPtr(m.Name),
		Photo:               null.StringFromPtr(m.Photo),
		Bio:                 null.StringFromPtr(m.Bio),
		PasswordHash:        m.PasswordHash,
		Role:                entities.UserRole(m.Role),
		IsBanned:            m.IsBanned,
		IsVerified:          m.IsVerified,
		ForcePasswordChange: m.ForcePasswordChange,
		SetupState:          entities.SetupState(m.SetupState),
		Settings: entities.UserSettings{
			Theme:              m.SettingsTheme,
			Notifications:      m.SettingsNotifications,
			OnboardingComplete: m.SettingsOnboardingComplete,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	// sqlite (tests) reports unique violations as plain strings
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ExpertRepository implements expert-profile data operations
type ExpertRepository struct {
	db *gorm.DB
}

// NewExpertRepository creates a new expert repository
func NewExpertRepository(db *gorm.DB) *ExpertRepository {
	return &ExpertRepository{db: db}
}

// CountPendingVerification counts experts awaiting manual review
func (r *ExpertRepository) CountPendingVerification(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Expert{}).
		Where("under_verification = ?", true).
		Count(&count).Error
	return count, err
}

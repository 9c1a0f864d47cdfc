package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents account roles on the platform
type UserRole string

const (
	UserRoleAdmin        UserRole = "admin"
	UserRoleUser         UserRole = "user"
	UserRoleExpert       UserRole = "expert"
	UserRoleOrganisation UserRole = "organisation"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleUser, UserRoleExpert, UserRoleOrganisation:
		return true
	}
	return false
}

// SetupState is the persisted position of an account in the
// first-login setup flow. It is stored explicitly rather than inferred
// from the presence of OTP fields, so "never issued" and "issued then
// consumed" stay distinguishable.
type SetupState string

const (
	SetupStateUnverified      SetupState = "unverified"
	SetupStateChallengeIssued SetupState = "challenge_issued"
	SetupStateEmailVerified   SetupState = "email_verified"
	SetupStateUnlocked        SetupState = "unlocked"
)

// User represents an account able to authenticate against the portal
type User struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	Username null.String `json:"username,omitempty"`
	Mobile   null.String `json:"mobile,omitempty"`
	Name     null.String `json:"name,omitempty"`
	Photo    null.String `json:"photo,omitempty"`
	Bio      null.String `json:"bio,omitempty"`

	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`

	IsBanned            bool       `json:"isBanned"`
	IsVerified          bool       `json:"isVerified"`
	ForcePasswordChange bool       `json:"forcePasswordChange"`
	SetupState          SetupState `json:"setupState"`

	// Outstanding OTP challenge. Write/read restricted: repositories
	// only load these through GetSecrets.
	VerificationOTP       null.String `json:"-"`
	VerificationOTPExpiry null.Time   `json:"-"`

	Settings UserSettings `json:"settings"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// UserSettings enumerates the recognized per-account settings keys.
type UserSettings struct {
	Theme              string `json:"theme"`
	Notifications      bool   `json:"notifications"`
	OnboardingComplete bool   `json:"onboardingComplete"`
}

// DefaultSettings returns the settings applied to newly provisioned accounts.
func DefaultSettings() UserSettings {
	return UserSettings{Theme: "system", Notifications: true}
}

// CreateUserInput represents admin input for provisioning an account
type CreateUserInput struct {
	Email string   `json:"email" binding:"required,email"`
	Name  string   `json:"name" binding:"omitempty,max=100"`
	Role  UserRole `json:"role" binding:"required"`
}

// ProvisionedCredentials are returned exactly once after provisioning.
type ProvisionedCredentials struct {
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	TempPassword string   `json:"tempPassword"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
}

// LoginInput represents input for admin sign-in
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"`
}

// ValidateChallengeInput carries a submitted OTP code.
type ValidateChallengeInput struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// UpdateProfileInput represents the optional profile step; every field
// is independently settable.
type UpdateProfileInput struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Username string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Photo    string `json:"photo" binding:"omitempty,url"`
}

// FinalizeSetupInput represents the password-finalize step.
type FinalizeSetupInput struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// SetupProjection is the non-secret view of an account handed to a
// resuming setup client. Credential and OTP fields never appear here.
type SetupProjection struct {
	Name       null.String `json:"name,omitempty"`
	Username   null.String `json:"username,omitempty"`
	Email      string      `json:"email"`
	Photo      null.String `json:"photo,omitempty"`
	SetupState SetupState  `json:"setupState"`
}

// UserListFilter narrows the admin user listing.
type UserListFilter struct {
	Role      UserRole
	Status    string // "", "banned", "active", "pending"
	Stale     bool   // unverified for more than six months
	Search    string
	ExcludeID uuid.UUID
	Page      int
	Limit     int
}

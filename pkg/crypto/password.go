package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// OTPDigits is the fixed width of verification codes
	OTPDigits = 6
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
	randomInt                  = rand.Int
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateOTP generates a uniform numeric verification code of fixed
// width. Codes are drawn from [100000, 999999] so the leading digit is
// never zero.
func GenerateOTP() (string, error) {
	n, err := randomInt(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateTempPassword generates a one-time credential for a freshly
// provisioned account. The suffix guarantees the mixed-case/digit/
// symbol classes that downstream password policies expect.
func GenerateTempPassword() (string, error) {
	bytes := make([]byte, 4)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate temp password: %w", err)
	}
	return hex.EncodeToString(bytes) + "A1!", nil
}

package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the bcrypt input limit. Longer passwords would be
// silently truncated by the algorithm, so signup rejects them instead.
const MaxPasswordBytes = 72

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordTooLong reports whether plain exceeds the bcrypt input limit.
func PasswordTooLong(plain string) bool {
	return len(plain) > MaxPasswordBytes
}

package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a sign-up password for users.password_hash.  cost
// comes from BCRYPT_COST; bcrypt rejects passwords longer than 72 bytes.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.  A malformed
// hash counts as a mismatch so login answers 401 either way.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

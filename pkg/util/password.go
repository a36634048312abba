package util

import "golang.org/x/crypto/bcrypt"

// Cost below the bcrypt default keeps login latency acceptable under the
// per-request budget; raise it if the hardware allows.
const bcryptCost = 8

// HashPassword turns a plaintext password into a bcrypt hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether a plaintext password matches a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

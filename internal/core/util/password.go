package util

import "golang.org/x/crypto/bcrypt"

// GenerateEncrypt hashes a plaintext password with bcrypt at the default
// cost. The digest embeds its own salt, so equal passwords never collide.
func GenerateEncrypt(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

// ComparePassword returns a non-nil error when the password does not match
// the stored digest, including when the digest itself is malformed.
func ComparePassword(password, encrypted string) error {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(password))
}

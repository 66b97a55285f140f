package helper

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	reLetter   = regexp.MustCompile(`[A-Za-z]`)
	reDigit    = regexp.MustCompile(`[0-9]`)
	reUserName = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,50}$`)

	ErrWeakPassword    = errors.New("le mot de passe doit contenir au moins 8 caractères, dont des lettres et des chiffres")
	ErrInvalidUserName = errors.New("le nom d'utilisateur doit faire 3 à 50 caractères (lettres, chiffres, _ . -)")
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func ValidatePassword(p string) error {
	if len(p) < 8 || len(p) > 72 || !reLetter.MatchString(p) || !reDigit.MatchString(p) {
		return ErrWeakPassword
	}
	return nil
}

func ValidateUserName(u string) error {
	if !reUserName.MatchString(u) {
		return ErrInvalidUserName
	}
	return nil
}

// RandomToken returns n random bytes hex-encoded.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SHA256Hex is used to store reset tokens without keeping the plaintext.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HMACHex keys the blacklist entry on the JWT secret.
func HMACHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

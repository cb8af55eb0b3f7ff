package services

import (
	"crypto/sha256"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"opsboard/model"
)

func CreateAccessToken(uid, email, role string) (string, error) {
	secret := []byte(os.Getenv("JWT_SECRET_KEY"))
	claims := &model.AccessClaims{
		UID:   uid,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "opsboard",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(60 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func CreateRefreshToken(uid string) (string, error) {
	secret := []byte(os.Getenv("JWT_REFRESH_SECRET_KEY"))
	claims := &model.RefreshClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "opsboard",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// HashRefreshToken runs the token through SHA-256 before bcrypt, since
// bcrypt only looks at the first 72 bytes.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func CompareRefreshToken(hashed, token string) bool {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:]) == nil
}

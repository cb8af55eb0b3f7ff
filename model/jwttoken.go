package model

import "github.com/golang-jwt/jwt/v5"

// TokenRecord is the stored refresh token document, keyed by uid. Only the
// bcrypt hash of the token is persisted.
type TokenRecord struct {
	UID          string `firestore:"uid" json:"uid"`
	RefreshToken string `firestore:"refreshToken" json:"-"`
	CreatedAt    int64  `firestore:"createdAt" json:"createdAt"`
	Revoked      bool   `firestore:"revoked" json:"revoked"`
	ExpiresIn    int64  `firestore:"expiresIn" json:"expiresIn"`
}

type AccessClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

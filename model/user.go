package model

import "time"

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleUser       = "user"
)

// UserProfile is the Firestore mirror of a Firebase Auth account, keyed by
// the auth uid.
type UserProfile struct {
	UID                string    `firestore:"uid" json:"uid"`
	Email              string    `firestore:"email" json:"email"`
	DisplayName        string    `firestore:"displayName" json:"displayName"`
	Role               string    `firestore:"role" json:"role"`
	LastLogin          time.Time `firestore:"lastLogin" json:"lastLogin"`
	LastPasswordChange time.Time `firestore:"lastPasswordChange" json:"lastPasswordChange"`
	CreatedAt          time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"opsboard/model"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]model.UserProfile, error)
	GetUser(ctx context.Context, uid string) (*model.UserProfile, error)
	CreateProfile(ctx context.Context, profile model.UserProfile) error
	UpdateRole(ctx context.Context, uid, role string) error
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	UpdateLastLogin(ctx context.Context, uid string) error
	UpdateLastPasswordChange(ctx context.Context, uid string) error
	DeleteProfile(ctx context.Context, uid string) error
	DeleteSubscriptionsByUser(ctx context.Context, uid string) (int, error)
	RemoveSubscriberFromAllTasks(ctx context.Context, uid string) (int, error)
}

// Accounts is the identity provider side of the user lifecycle.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	UpdateAccountDisplayName(ctx context.Context, uid, displayName string) error
	DeleteAccount(ctx context.Context, uid string) error
}

// CredentialVerifier checks an email/password pair against the identity
// provider, returning the account uid.
type CredentialVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (string, error)
}

type UserService struct {
	store    UserStore
	accounts Accounts
	verifier CredentialVerifier
	log      *slog.Logger
}

func NewUserService(store UserStore, accounts Accounts, verifier CredentialVerifier, log *slog.Logger) *UserService {
	return &UserService{store: store, accounts: accounts, verifier: verifier, log: log}
}

func (s *UserService) List(ctx context.Context) ([]model.UserProfile, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	return s.store.GetUser(ctx, uid)
}

// Create provisions the identity provider account first, then mirrors it as
// a profile document with lastLogin/lastPasswordChange set to now.
func (s *UserService) Create(ctx context.Context, email, password, role, displayName string) (string, error) {
	if !model.ValidRole(role) {
		return "", &model.ValidationError{Message: fmt.Sprintf("invalid role %q", role)}
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	uid, err := s.accounts.CreateAccount(ctx, email, password, displayName)
	if err != nil {
		return "", err
	}

	now := time.Now()
	profile := model.UserProfile{
		UID:                uid,
		Email:              email,
		DisplayName:        displayName,
		Role:               role,
		LastLogin:          now,
		LastPasswordChange: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return "", err
	}
	return uid, nil
}

// EnsureProfile creates a default profile on first authentication, or bumps
// lastLogin on subsequent ones. Returns the current profile.
func (s *UserService) EnsureProfile(ctx context.Context, uid, email string) (*model.UserProfile, error) {
	profile, err := s.store.GetUser(ctx, uid)
	if err == nil {
		if err := s.store.UpdateLastLogin(ctx, uid); err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != model.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	created := model.UserProfile{
		UID:                uid,
		Email:              email,
		Role:               model.RoleUser,
		LastLogin:          now,
		LastPasswordChange: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateProfile(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *UserService) UpdateRole(ctx context.Context, uid, role string) error {
	if !model.ValidRole(role) {
		return &model.ValidationError{Message: fmt.Sprintf("invalid role %q", role)}
	}
	return s.store.UpdateRole(ctx, uid, role)
}

// UpdateProfile renames both the profile document and the provider account,
// so tokens minted later carry the new name.
func (s *UserService) UpdateProfile(ctx context.Context, uid, displayName string) error {
	if err := s.store.UpdateDisplayName(ctx, uid, displayName); err != nil {
		return err
	}
	return s.accounts.UpdateAccountDisplayName(ctx, uid, displayName)
}

// Delete cascades: profile document, subscription records carrying the uid,
// the uid in every task's subscriber array, then the identity provider
// account. There is no rollback; if the account deletion fails the documents
// stay gone and the credentials keep working.
func (s *UserService) Delete(ctx context.Context, uid string) error {
	if err := s.store.DeleteProfile(ctx, uid); err != nil {
		return err
	}

	deleted, err := s.store.DeleteSubscriptionsByUser(ctx, uid)
	if err != nil {
		return err
	}
	updated, err := s.store.RemoveSubscriberFromAllTasks(ctx, uid)
	if err != nil {
		return err
	}
	s.log.Info("user cascade delete", "uid", uid, "subscriptions", deleted, "tasks", updated)

	return s.accounts.DeleteAccount(ctx, uid)
}

// ChangePassword revalidates policy, re-authenticates with the current
// credential, updates the provider account, and only then records
// lastPasswordChange.
func (s *UserService) ChangePassword(ctx context.Context, uid, email, currentPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return &model.ValidationError{Message: "new password must be different from current password"}
	}

	if _, err := s.verifier.VerifyPassword(ctx, email, currentPassword); err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, uid, newPassword); err != nil {
		return err
	}
	return s.store.UpdateLastPasswordChange(ctx, uid)
}

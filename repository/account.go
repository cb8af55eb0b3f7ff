package repository

import (
	"context"
	"fmt"

	"firebase.google.com/go/auth"

	"opsboard/model"
)

// AccountRepository wraps the Firebase Auth admin client for account
// lifecycle operations. Credential verification lives in services, since the
// admin SDK cannot check passwords.
type AccountRepository struct {
	auth *auth.Client
}

func NewAccountRepository(authClient *auth.Client) *AccountRepository {
	return &AccountRepository{auth: authClient}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := r.auth.CreateUser(ctx, params)
	if err != nil {
		return "", &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("create account: %v", err)}
	}
	return record.UID, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&auth.UserToUpdate{}).Password(newPassword)
	if _, err := r.auth.UpdateUser(ctx, uid, params); err != nil {
		return &model.AuthError{Code: model.AuthWeakPassword, Message: fmt.Sprintf("update password: %v", err)}
	}
	return nil
}

func (r *AccountRepository) UpdateAccountDisplayName(ctx context.Context, uid, displayName string) error {
	params := (&auth.UserToUpdate{}).DisplayName(displayName)
	if _, err := r.auth.UpdateUser(ctx, uid, params); err != nil {
		return &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("update display name: %v", err)}
	}
	return nil
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, uid string) error {
	if err := r.auth.DeleteUser(ctx, uid); err != nil {
		return &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("delete account: %v", err)}
	}
	return nil
}

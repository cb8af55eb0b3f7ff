package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"opsboard/model"
)

const (
	UsersCollection         = "users"
	RefreshTokensCollection = "refresh_tokens"
)

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	iter := r.client.Collection(UsersCollection).Documents(ctx)
	defer iter.Stop()

	var users []model.UserProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list users: %w", model.ErrStore, err)
		}

		var user model.UserProfile
		if err := doc.DataTo(&user); err != nil {
			return nil, fmt.Errorf("%w: parse user %s: %w", model.ErrStore, doc.Ref.ID, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (*model.UserProfile, error) {
	doc, err := r.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user %s: %w", model.ErrStore, uid, err)
	}

	var user model.UserProfile
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("%w: parse user %s: %w", model.ErrStore, uid, err)
	}
	return &user, nil
}

func (r *UserRepository) CreateProfile(ctx context.Context, profile model.UserProfile) error {
	if _, err := r.client.Collection(UsersCollection).Doc(profile.UID).Set(ctx, profile); err != nil {
		return fmt.Errorf("%w: create profile %s: %w", model.ErrStore, profile.UID, err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, uid, role string) error {
	return r.updateField(ctx, uid, "role", role)
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	return r.updateField(ctx, uid, "displayName", displayName)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	return r.updateField(ctx, uid, "lastLogin", time.Now())
}

func (r *UserRepository) UpdateLastPasswordChange(ctx context.Context, uid string) error {
	return r.updateField(ctx, uid, "lastPasswordChange", time.Now())
}

func (r *UserRepository) updateField(ctx context.Context, uid, path string, value interface{}) error {
	_, err := r.client.Collection(UsersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: path, Value: value},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: update user %s %s: %w", model.ErrStore, uid, path, err)
	}
	return nil
}

func (r *UserRepository) DeleteProfile(ctx context.Context, uid string) error {
	if _, err := r.client.Collection(UsersCollection).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete profile %s: %w", model.ErrStore, uid, err)
	}
	return nil
}

// DeleteSubscriptionsByUser removes every subscription record carrying the
// uid, returning how many were deleted.
func (r *UserRepository) DeleteSubscriptionsByUser(ctx context.Context, uid string) (int, error) {
	iter := r.client.Collection(SubscriptionsCollection).Where("userId", "==", uid).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("%w: query subscriptions for user %s: %w", model.ErrStore, uid, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("%w: delete subscription %s: %w", model.ErrStore, doc.Ref.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// RemoveSubscriberFromAllTasks strips the uid out of every task whose
// subscriber array contains it.
func (r *UserRepository) RemoveSubscriberFromAllTasks(ctx context.Context, uid string) (int, error) {
	iter := r.client.Collection(TasksCollection).Where("subscribers", "array-contains", uid).Documents(ctx)
	defer iter.Stop()

	updated := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return updated, fmt.Errorf("%w: query tasks subscribed by %s: %w", model.ErrStore, uid, err)
		}
		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "subscribers", Value: firestore.ArrayRemove(uid)},
		})
		if err != nil {
			return updated, fmt.Errorf("%w: remove subscriber %s from task %s: %w", model.ErrStore, uid, doc.Ref.ID, err)
		}
		updated++
	}
	return updated, nil
}

func (r *UserRepository) StoreRefreshToken(ctx context.Context, record model.TokenRecord) error {
	if _, err := r.client.Collection(RefreshTokensCollection).Doc(record.UID).Set(ctx, record); err != nil {
		return fmt.Errorf("%w: store refresh token for %s: %w", model.ErrStore, record.UID, err)
	}
	return nil
}

func (r *UserRepository) GetRefreshToken(ctx context.Context, uid string) (*model.TokenRecord, error) {
	doc, err := r.client.Collection(RefreshTokensCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get refresh token for %s: %w", model.ErrStore, uid, err)
	}

	var record model.TokenRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, fmt.Errorf("%w: parse refresh token for %s: %w", model.ErrStore, uid, err)
	}
	return &record, nil
}

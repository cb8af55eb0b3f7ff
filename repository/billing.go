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

const BillingCollection = "billing_entries"

type BillingRepository struct {
	client *firestore.Client
}

func NewBillingRepository(client *firestore.Client) *BillingRepository {
	return &BillingRepository{client: client}
}

func (r *BillingRepository) ListEntries(ctx context.Context) ([]model.BillingEntry, error) {
	iter := r.client.Collection(BillingCollection).OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var entries []model.BillingEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list billing entries: %w", model.ErrStore, err)
		}

		var entry model.BillingEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("%w: parse billing entry %s: %w", model.ErrStore, doc.Ref.ID, err)
		}
		entry.EntryID = doc.Ref.ID
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *BillingRepository) GetEntry(ctx context.Context, entryID string) (*model.BillingEntry, error) {
	doc, err := r.client.Collection(BillingCollection).Doc(entryID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get billing entry %s: %w", model.ErrStore, entryID, err)
	}

	var entry model.BillingEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("%w: parse billing entry %s: %w", model.ErrStore, entryID, err)
	}
	entry.EntryID = doc.Ref.ID
	return &entry, nil
}

func (r *BillingRepository) CreateEntry(ctx context.Context, entry model.BillingEntry) (string, error) {
	ref := r.client.Collection(BillingCollection).NewDoc()
	if _, err := ref.Set(ctx, entry); err != nil {
		return "", fmt.Errorf("%w: create billing entry: %w", model.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *BillingRepository) UpdateSyncStatus(ctx context.Context, entryID, syncStatus string) error {
	_, err := r.client.Collection(BillingCollection).Doc(entryID).Update(ctx, []firestore.Update{
		{Path: "sync_status", Value: syncStatus},
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: update billing entry %s sync status: %w", model.ErrStore, entryID, err)
	}
	return nil
}

// MarkSynced flips sync_status and status together; processed is only ever
// set alongside a successful sync.
func (r *BillingRepository) MarkSynced(ctx context.Context, entryID string) error {
	_, err := r.client.Collection(BillingCollection).Doc(entryID).Update(ctx, []firestore.Update{
		{Path: "sync_status", Value: model.SyncStatusSynced},
		{Path: "status", Value: model.BillingStatusProcessed},
		{Path: "updated_at", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: mark billing entry %s synced: %w", model.ErrStore, entryID, err)
	}
	return nil
}

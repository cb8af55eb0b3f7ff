package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"opsboard/model"
)

type BillingStore interface {
	ListEntries(ctx context.Context) ([]model.BillingEntry, error)
	GetEntry(ctx context.Context, entryID string) (*model.BillingEntry, error)
	CreateEntry(ctx context.Context, entry model.BillingEntry) (string, error)
	UpdateSyncStatus(ctx context.Context, entryID, syncStatus string) error
	MarkSynced(ctx context.Context, entryID string) error
}

// ERPClient pushes a billing entry to the external ERP system.
type ERPClient interface {
	PushEntry(ctx context.Context, entry model.BillingEntry) error
}

type BillingService struct {
	store BillingStore
	erp   ERPClient
	log   *slog.Logger
}

func NewBillingService(store BillingStore, erp ERPClient, log *slog.Logger) *BillingService {
	return &BillingService{store: store, erp: erp, log: log}
}

func (s *BillingService) List(ctx context.Context) ([]model.BillingEntry, error) {
	return s.store.ListEntries(ctx)
}

func (s *BillingService) Create(ctx context.Context, invoiceNumber string, amount float64, customerName string) (string, error) {
	now := time.Now()
	entry := model.BillingEntry{
		InvoiceNumber: invoiceNumber,
		Amount:        amount,
		CustomerName:  customerName,
		Status:        model.BillingStatusPending,
		SyncStatus:    model.SyncStatusNotSynced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.store.CreateEntry(ctx, entry)
}

// Sync drives not_synced/failed -> syncing -> synced|failed. A successful
// push also marks the entry processed; a failed push leaves status alone.
// Entries already syncing or synced are refused.
func (s *BillingService) Sync(ctx context.Context, entryID string) error {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	switch entry.SyncStatus {
	case model.SyncStatusSyncing:
		return &model.ValidationError{Message: fmt.Sprintf("entry %s is already syncing", entryID)}
	case model.SyncStatusSynced:
		return &model.ValidationError{Message: fmt.Sprintf("entry %s is already synced", entryID)}
	}

	if err := s.store.UpdateSyncStatus(ctx, entryID, model.SyncStatusSyncing); err != nil {
		return err
	}

	if err := s.erp.PushEntry(ctx, *entry); err != nil {
		s.log.Error("ERP push failed", "entry", entryID, "invoice", entry.InvoiceNumber, "error", err)
		if statusErr := s.store.UpdateSyncStatus(ctx, entryID, model.SyncStatusFailed); statusErr != nil {
			s.log.Error("failed to record failed sync status", "entry", entryID, "error", statusErr)
		}
		return fmt.Errorf("sync entry %s: %w", entryID, err)
	}

	return s.store.MarkSynced(ctx, entryID)
}

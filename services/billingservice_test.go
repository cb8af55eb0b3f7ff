package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"opsboard/model"
)

type MockBillingStore struct {
	mock.Mock
}

func (m *MockBillingStore) ListEntries(ctx context.Context) ([]model.BillingEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BillingEntry), args.Error(1)
}

func (m *MockBillingStore) GetEntry(ctx context.Context, entryID string) (*model.BillingEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BillingEntry), args.Error(1)
}

func (m *MockBillingStore) CreateEntry(ctx context.Context, entry model.BillingEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockBillingStore) UpdateSyncStatus(ctx context.Context, entryID, syncStatus string) error {
	args := m.Called(ctx, entryID, syncStatus)
	return args.Error(0)
}

func (m *MockBillingStore) MarkSynced(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type MockERPClient struct {
	mock.Mock
}

func (m *MockERPClient) PushEntry(ctx context.Context, entry model.BillingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBillingServiceCreate(t *testing.T) {
	store := new(MockBillingStore)
	store.On("CreateEntry", mock.Anything, mock.MatchedBy(func(entry model.BillingEntry) bool {
		return entry.InvoiceNumber == "INV-1001" &&
			entry.Amount == 1250.50 &&
			entry.CustomerName == "Acme Freight" &&
			entry.Status == model.BillingStatusPending &&
			entry.SyncStatus == model.SyncStatusNotSynced
	})).Return("entry-1", nil)

	id, err := NewBillingService(store, new(MockERPClient), discardLogger()).
		Create(context.Background(), "INV-1001", 1250.50, "Acme Freight")
	require.NoError(t, err)
	assert.Equal(t, "entry-1", id)
	store.AssertExpectations(t)
}

func TestBillingServiceSyncSuccess(t *testing.T) {
	store := new(MockBillingStore)
	erp := new(MockERPClient)

	entry := &model.BillingEntry{EntryID: "e1", InvoiceNumber: "INV-1", SyncStatus: model.SyncStatusNotSynced}
	store.On("GetEntry", mock.Anything, "e1").Return(entry, nil)
	store.On("UpdateSyncStatus", mock.Anything, "e1", model.SyncStatusSyncing).Return(nil)
	erp.On("PushEntry", mock.Anything, *entry).Return(nil)
	store.On("MarkSynced", mock.Anything, "e1").Return(nil)

	err := NewBillingService(store, erp, discardLogger()).Sync(context.Background(), "e1")
	require.NoError(t, err)
	store.AssertExpectations(t)
	erp.AssertExpectations(t)
}

func TestBillingServiceSyncFailedEntryRetriable(t *testing.T) {
	store := new(MockBillingStore)
	erp := new(MockERPClient)

	entry := &model.BillingEntry{EntryID: "e1", SyncStatus: model.SyncStatusFailed}
	store.On("GetEntry", mock.Anything, "e1").Return(entry, nil)
	store.On("UpdateSyncStatus", mock.Anything, "e1", model.SyncStatusSyncing).Return(nil)
	erp.On("PushEntry", mock.Anything, *entry).Return(nil)
	store.On("MarkSynced", mock.Anything, "e1").Return(nil)

	err := NewBillingService(store, erp, discardLogger()).Sync(context.Background(), "e1")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestBillingServiceSyncPushFails(t *testing.T) {
	store := new(MockBillingStore)
	erp := new(MockERPClient)

	entry := &model.BillingEntry{EntryID: "e1", SyncStatus: model.SyncStatusNotSynced}
	store.On("GetEntry", mock.Anything, "e1").Return(entry, nil)
	store.On("UpdateSyncStatus", mock.Anything, "e1", model.SyncStatusSyncing).Return(nil)
	erp.On("PushEntry", mock.Anything, *entry).Return(errors.New("erp unreachable"))
	store.On("UpdateSyncStatus", mock.Anything, "e1", model.SyncStatusFailed).Return(nil)

	err := NewBillingService(store, erp, discardLogger()).Sync(context.Background(), "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "erp unreachable")
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkSynced", mock.Anything, mock.Anything)
}

func TestBillingServiceSyncRefusesInFlight(t *testing.T) {
	tests := []struct {
		name       string
		syncStatus string
	}{
		{name: "already syncing", syncStatus: model.SyncStatusSyncing},
		{name: "already synced", syncStatus: model.SyncStatusSynced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockBillingStore)
			erp := new(MockERPClient)
			store.On("GetEntry", mock.Anything, "e1").
				Return(&model.BillingEntry{EntryID: "e1", SyncStatus: tt.syncStatus}, nil)

			err := NewBillingService(store, erp, discardLogger()).Sync(context.Background(), "e1")
			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			store.AssertNotCalled(t, "UpdateSyncStatus", mock.Anything, mock.Anything, mock.Anything)
			erp.AssertNotCalled(t, "PushEntry", mock.Anything, mock.Anything)
		})
	}
}

func TestBillingServiceSyncUnknownEntry(t *testing.T) {
	store := new(MockBillingStore)
	store.On("GetEntry", mock.Anything, "nope").Return(nil, model.ErrNotFound)

	err := NewBillingService(store, new(MockERPClient), discardLogger()).Sync(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

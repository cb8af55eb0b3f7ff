package model

import "time"

const (
	BillingStatusPending   = "pending"
	BillingStatusProcessed = "processed"
	BillingStatusError     = "error"
)

// Sync status tracks pushing an entry to the McLeod ERP.
// not_synced -> syncing -> synced | failed; failed may be retried.
const (
	SyncStatusNotSynced = "not_synced"
	SyncStatusSyncing   = "syncing"
	SyncStatusSynced    = "synced"
	SyncStatusFailed    = "failed"
)

type BillingEntry struct {
	EntryID       string    `firestore:"-" json:"id"`
	InvoiceNumber string    `firestore:"invoice_number" json:"invoice_number"`
	Amount        float64   `firestore:"amount" json:"amount"`
	CustomerName  string    `firestore:"customer_name" json:"customer_name"`
	Status        string    `firestore:"status" json:"status"`
	SyncStatus    string    `firestore:"sync_status" json:"sync_status"`
	CreatedAt     time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at" json:"updated_at"`
}

package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds published on the ledger events exchange.
const (
	KindTransactionCreated = "transaction.created"
	KindTransactionUpdated = "transaction.updated"
	KindTransactionDeleted = "transaction.deleted"
	KindReconcileRequested = "reconcile.requested"
)

// LedgerMessage is a lightweight notification; consumers fetch the full
// transaction from the store when they need it.
type LedgerMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id,omitempty"`
	WalletIDs     []string  `json:"wallet_ids,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionMessage creates a transaction event carrying the wallets it
// touched.
func NewTransactionMessage(kind, transactionID string, walletIDs ...string) *LedgerMessage {
	return &LedgerMessage{
		Kind:          kind,
		TransactionID: transactionID,
		WalletIDs:     walletIDs,
		Timestamp:     time.Now(),
	}
}

// NewReconcileMessage creates a request for a full reconciliation pass.
func NewReconcileMessage() *LedgerMessage {
	return &LedgerMessage{
		Kind:      KindReconcileRequested,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerMessageFromJSON creates a message from JSON bytes
func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var msg LedgerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

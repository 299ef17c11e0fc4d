package amqp

import (
	"encoding/json"
	"time"
)

// TransactionExportMessage asks the export worker to push one transaction
// to the spreadsheet. It carries only the id; the worker reads the current
// row from the database, so stale messages never overwrite newer edits.
type TransactionExportMessage struct {
	ID        int64     `json:"id"`
	WalletID  int64     `json:"wallet_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionExportMessage(id, walletID int64) *TransactionExportMessage {
	return &TransactionExportMessage{
		ID:        id,
		WalletID:  walletID,
		Timestamp: time.Now(),
	}
}

func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"time"
)

// Change types carried by TransactionChangedMessage.
const (
	ChangeCreated = "created"
	ChangeDeleted = "deleted"
)

// TransactionChangedMessage signals that the transaction set changed and a
// fresh analysis is needed. It carries only the transaction ID and change
// type; the worker reads the full data set from the database.
type TransactionChangedMessage struct {
	ID         string    `json:"id"`
	ChangeType string    `json:"change_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTransactionChangedMessage creates a change message stamped with now
func NewTransactionChangedMessage(id, changeType string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		ID:         id,
		ChangeType: changeType,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedMessageFromJSON creates a message from JSON bytes
func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

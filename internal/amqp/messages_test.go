package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionSyncMessage(t *testing.T) {
	id := int64(12345)
	version := int64(2)

	msg := NewTransactionSyncMessage(id, version)

	if msg.ID != id {
		t.Errorf("NewTransactionSyncMessage() ID = %v, want %v", msg.ID, id)
	}
	if msg.Version != version {
		t.Errorf("NewTransactionSyncMessage() Version = %v, want %v", msg.Version, version)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewTransactionSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewTransactionSyncMessage() Timestamp should be recent")
	}
}

func TestTransactionSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &TransactionSyncMessage{
		ID:        12345,
		Version:   2,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := TransactionSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Version != msg.Version {
		t.Errorf("Parsed Version = %v, want %v", parsedMsg.Version, msg.Version)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestTransactionSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": "not_a_number", "version": 1}`)

	_, err := TransactionSyncMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("TransactionSyncMessageFromJSON() should fail with invalid JSON")
	}
}

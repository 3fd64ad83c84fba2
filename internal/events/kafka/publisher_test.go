package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mmynk/tabungan/internal/events"
)

func TestMessage(t *testing.T) {
	at := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	event := events.TransactionRecorded{
		TransactionID: 12,
		StudentID:     3,
		Kind:          "DEPOSIT",
		Amount:        5000,
		OccurredAt:    at,
	}

	msg, err := message(event)
	if err != nil {
		t.Fatalf("message failed: %v", err)
	}

	if string(msg.Key) != "3" {
		t.Errorf("key = %q, want %q", msg.Key, "3")
	}
	if !msg.Time.Equal(at) {
		t.Errorf("time = %v, want %v", msg.Time, at)
	}

	var decoded events.TransactionRecorded
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if decoded.TransactionID != 12 || decoded.Amount != 5000 || decoded.Kind != "DEPOSIT" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewPublisherDefaultsTopic(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "")
	defer p.Close()

	if p.writer.Topic != events.TopicTransactionRecorded {
		t.Errorf("topic = %q, want %q", p.writer.Topic, events.TopicTransactionRecorded)
	}
}

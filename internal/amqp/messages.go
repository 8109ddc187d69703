package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"chitieu/internal/core"
)

// ExpenseSyncMessage identifies one stored expense row that needs a
// spreadsheet push. Only identity travels on the wire; the worker loads the
// full row from SQLite. The period is carried for routing visibility in logs
// and broker tooling.
type ExpenseSyncMessage struct {
	ID        int64       `json:"id"`
	Version   int64       `json:"version"`
	Period    core.Period `json:"period"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewExpenseSyncMessage(id, version int64, period core.Period) *ExpenseSyncMessage {
	return &ExpenseSyncMessage{
		ID:        id,
		Version:   version,
		Period:    period,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseSyncMessageFromJSON(data []byte) (*ExpenseSyncMessage, error) {
	var msg ExpenseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == 0 {
		return nil, fmt.Errorf("sync message without expense id")
	}
	return &msg, nil
}

package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const TopicStatementCreated = "statement.created"

type StatementCreated struct {
	StatementID string          `json:"statement_id"`
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// PartitionKey keeps every event of one user on the same partition, in order.
func (e StatementCreated) PartitionKey() string {
	return e.UserID
}

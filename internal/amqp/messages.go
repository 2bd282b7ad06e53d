package amqp

import (
	"encoding/json"
	"time"
)

// EventType names a change to the expense store.
type EventType string

const (
	EventExpenseCreated  EventType = "expense.created"
	EventExpensesDeleted EventType = "expenses.deleted"
)

// ExpenseEvent is a lightweight change notification. Consumers re-read the
// store for details; the event only says what changed.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Criteria  string    `json:"criteria,omitempty"`
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseCreatedEvent describes a single inserted expense.
func NewExpenseCreatedEvent(id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpenseCreated,
		ID:        id,
		Count:     1,
		Timestamp: time.Now(),
	}
}

// NewExpensesDeletedEvent describes a delete by criteria and how many rows it removed.
func NewExpensesDeletedEvent(criteria string, count int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpensesDeleted,
		Criteria:  criteria,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

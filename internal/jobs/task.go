package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskCategoryRefresh recomputes the member counts of one category.
const TaskCategoryRefresh = "category.refresh"

// Task is one deferred unit of work, run after a deletion commits.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCategoryRefresh(category string) *Task {
	return &Task{
		ID:        uuid.New(),
		Type:      TaskCategoryRefresh,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

func (t *Task) String() string {
	if t.Category != "" {
		return fmt.Sprintf("%s[%s](%s)", t.Type, t.ID, t.Category)
	}

	return fmt.Sprintf("%s[%s]", t.Type, t.ID)
}

func (t *Task) Encode() ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTask(payload []byte) (*Task, error) {
	var task Task
	if err := json.Unmarshal(payload, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}

	return &task, nil
}

// Scheduler accepts tasks for asynchronous execution. Schedule never runs the
// task inline.
type Scheduler interface {
	Schedule(ctx context.Context, task *Task) error
}

package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"complaintdesk/internal/models"
)

// Stream carries queued notification tasks.
const Stream = "notify:email"

const (
	TaskComplaintCreated = "complaint_created"
	TaskStatusUpdated    = "status_updated"
	TaskPendingDigest    = "pending_digest"
)

// Task is the wire form of a queued notification.
type Task struct {
	Type        string `json:"type"`
	ComplaintID string `json:"complaintId,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Queue hands notification tasks to the redis stream. Every method is
// fire-and-forget: enqueue failures are logged and never surface to the
// request that triggered them.
type Queue struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewQueue(client *redis.Client, log zerolog.Logger) *Queue {
	return &Queue{client: client, log: log}
}

func (q *Queue) ComplaintCreated(ctx context.Context, complaint models.Complaint) {
	q.enqueue(ctx, Task{
		Type:        TaskComplaintCreated,
		ComplaintID: complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    string(complaint.Category),
		Priority:    string(complaint.Priority),
	})
}

func (q *Queue) StatusUpdated(ctx context.Context, complaint models.Complaint) {
	q.enqueue(ctx, Task{
		Type:        TaskStatusUpdated,
		ComplaintID: complaint.ID,
		Title:       complaint.Title,
		Status:      string(complaint.Status),
	})
}

func (q *Queue) PendingDigest(ctx context.Context) {
	q.enqueue(ctx, Task{Type: TaskPendingDigest})
}

func (q *Queue) enqueue(ctx context.Context, task Task) {
	if q.client == nil {
		return
	}

	payload, err := json.Marshal(task)
	if err != nil {
		q.log.Error().Err(err).Str("type", task.Type).Msg("marshal notification task failed")
		return
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		Values: map[string]any{"task": string(payload)},
	}).Err()
	if err != nil {
		q.log.Error().Err(err).Str("type", task.Type).Msg("enqueue notification failed")
	}
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"complaintdesk/internal/models"
)

const (
	consumerGroup = "notifier"
	claimInterval = time.Minute
)

// PendingCounter is the slice of the complaint store the digest task needs.
type PendingCounter interface {
	CountByStatus(ctx context.Context, status models.ComplaintStatus) (int, error)
}

// Consumer drains the notification stream and delivers through the mailer.
// It owns the failure policy for notifications: log and move on, nothing
// propagates back to the request that enqueued the task.
type Consumer struct {
	client     *redis.Client
	mailer     *Mailer
	complaints PendingCounter
	name       string
	log        zerolog.Logger
}

func NewConsumer(client *redis.Client, mailer *Mailer, complaints PendingCounter, name string, log zerolog.Logger) *Consumer {
	return &Consumer{
		client:     client,
		mailer:     mailer,
		complaints: complaints,
		name:       name,
		log:        log,
	}
}

// Start blocks until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	if c.client == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.read(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Error().Err(err).Msg("notification stream read error")
				time.Sleep(2 * time.Second)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = c.claimStalled(ctx)
		default:
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, Stream, consumerGroup, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (c *Consumer) read(ctx context.Context) error {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    consumerGroup,
		Consumer: c.name,
		Streams:  []string{Stream, ">"},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	for _, stream := range result {
		for _, msg := range stream.Messages {
			if err := c.handle(ctx, msg); err != nil {
				c.log.Error().
					Err(err).
					Str("message_id", msg.ID).
					Msg("notification delivery failed")
				continue
			}
			if err := c.client.XAck(ctx, Stream, consumerGroup, msg.ID).Err(); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
			}
		}
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) error {
	raw, ok := msg.Values["task"].(string)
	if !ok {
		return fmt.Errorf("message %s has no task payload", msg.ID)
	}

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}

	switch task.Type {
	case TaskComplaintCreated:
		return c.mailer.SendComplaintCreated(ctx, task)
	case TaskStatusUpdated:
		return c.mailer.SendStatusUpdated(ctx, task)
	case TaskPendingDigest:
		pending, err := c.complaints.CountByStatus(ctx, models.ComplaintStatusPending)
		if err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		return c.mailer.SendPendingDigest(ctx, pending)
	default:
		c.log.Warn().Str("type", task.Type).Str("message_id", msg.ID).Msg("unknown notification task")
		return nil
	}
}

func (c *Consumer) claimStalled(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: Stream,
		Group:  consumerGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
	}).Result()
	if err != nil {
		return err
	}

	for _, entry := range pending {
		if entry.Idle < claimInterval {
			continue
		}
		msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   Stream,
			Group:    consumerGroup,
			Consumer: c.name,
			MinIdle:  claimInterval,
			Messages: []string{entry.ID},
		}).Result()
		if err != nil {
			c.log.Error().Err(err).Msg("claim stalled notification failed")
			continue
		}
		for _, msg := range msgs {
			if err := c.handle(ctx, msg); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("claimed delivery failed")
				continue
			}
			if err := c.client.XAck(ctx, Stream, consumerGroup, msg.ID).Err(); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack claimed failed")
			}
		}
	}
	return nil
}

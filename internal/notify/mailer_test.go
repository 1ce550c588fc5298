package notify

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/config"
)

func TestMailer_DisabledWithoutSMTPSettings(t *testing.T) {
	mailer, err := NewMailer(config.SMTPConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, mailer.Enabled())

	// Disabled mailer swallows sends instead of failing.
	err = mailer.SendComplaintCreated(context.Background(), Task{
		Type:  TaskComplaintCreated,
		Title: "Broken widget",
	})
	assert.NoError(t, err)
}

func TestQueue_NilClientIsNoop(t *testing.T) {
	queue := NewQueue(nil, zerolog.Nop())

	// Must not panic or block without a backing stream.
	queue.PendingDigest(context.Background())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingSessionSecret(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sessionsecret")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COMPLAINTDESK_SECURITY_SESSIONSECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, "complaintdesk-attachments", cfg.Storage.BucketAttachments)
	assert.Equal(t, "test-secret", cfg.Security.SessionSecret)
	assert.False(t, cfg.IsProduction())
}

func TestSMTPConfig_Enabled(t *testing.T) {
	cfg := SMTPConfig{}
	assert.False(t, cfg.Enabled())

	cfg = SMTPConfig{Host: "smtp.example.com", Username: "u", Password: "p"}
	assert.True(t, cfg.Enabled())
}

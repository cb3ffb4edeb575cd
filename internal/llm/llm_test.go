package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{APIKey: "sk-test", Model: "gpt-4"}},
		{name: "missing key", cfg: Config{Model: "gpt-4"}, wantErr: true},
		{name: "missing model", cfg: Config{APIKey: "sk-test"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{
		APIKey:            "sk-test",
		Model:             "gpt-4",
		RequestsPerSecond: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotNil(t, client.limiter)

	client, err = NewClient(Config{APIKey: "sk-test", Model: "gpt-4"})
	require.NoError(t, err)
	assert.Nil(t, client.limiter)

	_, err = NewClient(Config{})
	require.Error(t, err)
}

func TestCallContextAppliesRequestTimeout(t *testing.T) {
	client, err := NewClient(Config{
		APIKey:         "sk-test",
		Model:          "gpt-4",
		RequestTimeout: 30 * time.Second,
	})
	require.NoError(t, err)

	ctx, cancel := client.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)
}

func TestCallContextNoTimeoutConfigured(t *testing.T) {
	client, err := NewClient(Config{APIKey: "sk-test", Model: "gpt-4"})
	require.NoError(t, err)

	ctx, cancel := client.callContext(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

package githubapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientAppliesTimeout(t *testing.T) {
	c := NewClient(context.Background(), "", 5*time.Second, nil)
	require.NotNil(t, c)
	assert.Equal(t, 5*time.Second, c.gh.Client().Timeout)
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient(context.Background(), "", 0, nil)
	assert.Equal(t, defaultRequestTimeout, c.gh.Client().Timeout)
}

func TestNewClientAuthenticatedKeepsTimeout(t *testing.T) {
	c := NewClient(context.Background(), "ghp_testtoken", 7*time.Second, nil)
	assert.Equal(t, 7*time.Second, c.gh.Client().Timeout)
}

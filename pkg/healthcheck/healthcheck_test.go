package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_AllHealthy(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("database", func(ctx context.Context) error { return nil })
	c.Register("cache", func(ctx context.Context) error { return nil })

	report := c.Check(context.Background())

	assert.True(t, report.Healthy)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "database", report.Checks[0].Name)
	assert.True(t, report.Checks[0].Healthy)
}

func TestCheck_FailurePropagates(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("database", func(ctx context.Context) error { return nil })
	c.Register("cache", func(ctx context.Context) error { return errors.New("connection refused") })

	report := c.Check(context.Background())

	assert.False(t, report.Healthy)
	assert.True(t, report.Checks[0].Healthy)
	assert.False(t, report.Checks[1].Healthy)
	assert.Equal(t, "connection refused", report.Checks[1].Error)
}

func TestCheck_TimeoutReachesProbe(t *testing.T) {
	c := NewChecker(10 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	report := c.Check(context.Background())

	assert.False(t, report.Healthy)
}

func TestCheck_NoProbes(t *testing.T) {
	report := NewChecker(time.Second).Check(context.Background())
	assert.True(t, report.Healthy)
	assert.Empty(t, report.Checks)
}

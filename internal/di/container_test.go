package di

import (
	"context"
	"testing"

	"intelfeed/internal/shared/logger"

	"github.com/stretchr/testify/assert"
)

func TestContainer_InitializationOrderGuards(t *testing.T) {
	c := NewContainer(logger.NewLogger())

	err := c.InitializeAuth()
	assert.ErrorContains(t, err, "infrastructure must be initialized")

	err = c.InitializeNews()
	assert.ErrorContains(t, err, "infrastructure must be initialized")

	err = c.InitializeReports()
	assert.ErrorContains(t, err, "news module must be initialized")
}

func TestContainer_EmptyLifecycle(t *testing.T) {
	c := NewContainer(logger.NewLogger())

	// Nothing initialized: health and cleanup are no-ops.
	assert.NoError(t, c.HealthCheck(context.Background()))
	assert.NoError(t, c.Cleanup(context.Background()))
	assert.NoError(t, c.Cleanup(context.Background()))
}

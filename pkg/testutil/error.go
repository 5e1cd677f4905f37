package testutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorIs verifies that err wraps target
func AssertErrorIs(t *testing.T, err, target error) {
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %v, got %v", target, err)
}

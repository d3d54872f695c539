package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("abc123")
	b := PointID("abc123")
	c := PointID("abc124")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "deadbeef.png", ObjectKey("deadbeef", "png"))
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionAndErrorAttributes(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "debug")
	require.NoError(t, err)

	l.Action("order_created").Error("Failed to save order", errors.New("boom"), "order_number", "ORD-AAAA1111")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "order_created", entry["action"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ORD-AAAA1111", entry["order_number"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, "WARN")
	require.NoError(t, err)

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestUnknownLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("UTC+2", 2*60*60)
	l := NewWithWriter(&buf, "debug", loc)

	l.WithField("component", "test").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["component"])

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	assert.Contains(t, ts, "+02:00")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	l := NewWithWriter(&bytes.Buffer{}, "verbose", nil)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

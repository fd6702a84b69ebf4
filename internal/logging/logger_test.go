package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput(&buf, "debug", "plain")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.WithFields(log.Fields{"trials": 10, "seed": 7}).Info("batch finished")
	line := buf.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "batch finished seed=7 trials=10")

	buf.Reset()
	l, err = NewWithOutput(&buf, "info", "json")
	require.NoError(t, err)
	l.WithField("pass_rate", 0.5).Warn("slow batch")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slow batch", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, 0.5, entry["pass_rate"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "text")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestNew_DefaultLevel(t *testing.T) {
	l, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/tj/assert"
)

func Test_LoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)
	log.Debug("hidden")
	log.Info("snapshot done", "holders", 3, "empty", "")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "snapshot done")
	assert.Contains(t, out, "holders")
	assert.NotContains(t, out, "empty")

	buf.Reset()
	log = NewWithWriter(&buf, true)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func Test_FormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123_456_789, time.FixedZone("X", 3600))
	assert.EqualValues(t, "2024-03-01T11:30:45.123Z", formatRFC3339Millis(ts))
}

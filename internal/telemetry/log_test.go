package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/ravvdevv/pulse-rdt/internal/telemetry"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer

	log := telemetry.NewLogger(false, &buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.Debug("should not appear")
	assert.Empty(t, buf.String())

	debugLog := telemetry.NewLogger(true, &buf)
	assert.Equal(t, logrus.DebugLevel, debugLog.GetLevel())

	debugLog.Debug("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

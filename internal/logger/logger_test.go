package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerFormatterFollowsEnvironment(t *testing.T) {
	prod := NewLogger("info", true)
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := NewLogger("debug", false)
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	logger := NewLogger("verbose", false)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"panic":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestNewConfig(t *testing.T) {
	prod := newConfig("production", "warn", "json")
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, "timestamp", prod.EncoderConfig.TimeKey)
	assert.True(t, prod.DisableStacktrace)
	assert.Equal(t, zapcore.WarnLevel, prod.Level.Level())
	assert.Equal(t, serviceName, prod.InitialFields["service"])

	dev := newConfig("development", "debug", "console")
	assert.Equal(t, "console", dev.Encoding)
	assert.Nil(t, dev.Sampling)
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, zap.String("request_id", "host/abc-000001"), RequestID("host/abc-000001"))
	assert.Equal(t, zapcore.SkipType, RequestID("").Type)
}

func TestNamed(t *testing.T) {
	assert.Equal(t, "ratelimit", Named("ratelimit").Name())
}

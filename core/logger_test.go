package core

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewCustomHandler(&buf)
	handler.now = func() time.Time { return time.Date(2024, 10, 1, 9, 30, 0, 0, time.UTC) }

	logger := &log.Logger{Handler: handler, Level: log.DebugLevel}
	logger.WithFields(log.Fields{"status": 200, "method": "GET"}).Info("request")
	logger.Warn("plain")

	assert.Equal(t,
		"2024-10-01 09:30:00 I request method=GET status=200\n"+
			"2024-10-01 09:30:00 W plain\n",
		buf.String())
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })

	t.Run("should use the given level", func(t *testing.T) {
		t.Setenv(LogLevelEnv, "")
		require.NoError(t, InitLogger("debug"))
		assert.Equal(t, log.DebugLevel, log.Log.(*log.Logger).Level)
	})

	t.Run("should prefer the environment", func(t *testing.T) {
		t.Setenv(LogLevelEnv, "ERROR")
		require.NoError(t, InitLogger("debug"))
		assert.Equal(t, log.ErrorLevel, log.Log.(*log.Logger).Level)
	})

	t.Run("should default to info", func(t *testing.T) {
		t.Setenv(LogLevelEnv, "")
		require.NoError(t, InitLogger(""))
		assert.Equal(t, log.InfoLevel, log.Log.(*log.Logger).Level)
	})

	t.Run("should reject unknown levels", func(t *testing.T) {
		t.Setenv(LogLevelEnv, "")
		assert.Error(t, InitLogger("chatty"))
	})
}

func TestAccessFields(t *testing.T) {
	id := uuid.MustParse("01926f3e-7b1c-7000-8000-000000000001")
	req := httptest.NewRequest("GET", "/api/v2/references/filter_tree/psc/", nil)

	fields := AccessFields(
		LogWithRequestID(id),
		LogWithRequest(req),
		LogWithStatus(404, 1500*time.Microsecond),
	)

	assert.Equal(t, log.Fields{
		"request_id": id.String(),
		"method":     "GET",
		"path":       "/api/v2/references/filter_tree/psc/",
		"status":     404,
		"duration":   "1.5ms",
	}, fields)
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func capture(t *testing.T, env string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := Log
	Log = slog.New(newHandler(env, &buf))
	t.Cleanup(func() { Log = previous })
	return &buf
}

func TestNewHandler_ProductionWritesJSON(t *testing.T) {
	buf := capture(t, "production")

	Info("application approved", "application_id", "LA-1-ABCDEF12")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "application approved", line["msg"])
	assert.Equal(t, "LA-1-ABCDEF12", line["application_id"])
}

func TestNewHandler_TestKeepsOnlyErrors(t *testing.T) {
	buf := capture(t, "test")

	Info("ignored")
	Warn("ignored")
	Error("kept")

	assert.NotContains(t, buf.String(), "ignored")
	assert.Contains(t, buf.String(), "kept")
}

func TestGormLogger_Trace(t *testing.T) {
	buf := capture(t, "development")
	gl := NewGormLogger(gormlogger.Info, 50*time.Millisecond)
	sql := func() (string, int64) { return `SELECT * FROM "loan_applications"`, 0 }

	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "SQL Error")

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "Slow SQL")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String())
}

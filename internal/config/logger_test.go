package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	logger, closer, err := NewLogger("warn", "")
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	_, _, err = NewLogger("chatty", "")
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "salesync.log")
	logger, closer, err := NewLogger("info", path)
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestLogError_Fields(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	LogError(logger, "ingest", "Run", "ingestion aborted", "apl.csv", errors.New("boom"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "ingest", entry.Data["module"])
	assert.Equal(t, "Run", entry.Data["funcName"])
	assert.Equal(t, "apl.csv", entry.Data["data"])
}

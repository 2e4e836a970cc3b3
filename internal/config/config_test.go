package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "globalSecondaryIndex", cfg.Dynamo.CreatedDateIndex)
	assert.Empty(t, cfg.Dynamo.Table)
	assert.Empty(t, cfg.SNS.TopicARN)
	assert.True(t, cfg.Report.ScheduleEnabled)
	assert.Equal(t, 23, cfg.Report.HourUTC)
	assert.Equal(t, time.Minute, cfg.Report.CheckInterval)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Ingestion.RateLimitEnabled)
	assert.Equal(t, 1000, cfg.Ingestion.RateLimitRequests)
	assert.False(t, cfg.DLQ.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_PrefixedEnvOverrides(t *testing.T) {
	t.Setenv("S3PULSE_DYNAMO_TABLE", "pulse-events")
	t.Setenv("S3PULSE_SNS_TOPIC_ARN", "arn:aws:sns:eu-west-1:123456789012:pulse-reports")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pulse-events", cfg.Dynamo.Table)
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:pulse-reports", cfg.SNS.TopicARN)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("DDB_TABLE_NAME", "legacy-events")
	t.Setenv("DDB_CREATED_DATE_INDEX_NAME", "createdDateIdx")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:eu-west-1:123456789012:legacy-reports")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-events", cfg.Dynamo.Table)
	assert.Equal(t, "createdDateIdx", cfg.Dynamo.CreatedDateIndex)
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:legacy-reports", cfg.SNS.TopicARN)
}

func TestLoad_PrefixedNameWinsOverLegacy(t *testing.T) {
	t.Setenv("S3PULSE_DYNAMO_TABLE", "preferred")
	t.Setenv("DDB_TABLE_NAME", "legacy")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "preferred", cfg.Dynamo.Table)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9099
dynamo:
  table: file-events
report:
  hour_utc: 6
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "file-events", cfg.Dynamo.Table)
	assert.Equal(t, 6, cfg.Report.HourUTC)
	// Defaults still apply for keys the file omits.
	assert.Equal(t, "globalSecondaryIndex", cfg.Dynamo.CreatedDateIndex)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a: map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

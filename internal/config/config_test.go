package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  host: 127.0.0.1
  port: 9090
database:
  host: db.local
  port: 5432
  user: app
  password: pw
  dbname: locket
  sslmode: disable
aws:
  region: eu-west-1
  s3_bucket: pics
jwt:
  secret: s3cret
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.BasePath, "base path defaults when omitted")
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [broken"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.local port=5432 user=app password=pw dbname=locket sslmode=disable",
		cfg.Database.DSN(),
	)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func mysqlEnv() map[string]string {
	return map[string]string{
		"HTTP_SERVER_ADDR": ":8082",
		"DB_DRIVER":        "mysql",
		"DB_HOST":          "db.internal",
		"DB_NAME":          "students",
		"DB_USER":          "admin",
		"DB_PASSWORD":      "secret",
	}
}

func TestLoad_FromEnvWithDefaults(t *testing.T) {
	setEnv(t, mysqlEnv())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8082", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "students", cfg.Database.Name)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Zero(t, cfg.Database.MaxOpenConns, "pool sizing defaults to the library's")
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_CORSOriginsList(t *testing.T) {
	env := mysqlEnv()
	env["CORS_ALLOWED_ORIGINS"] = "http://localhost:3000,https://students.example.com"
	setEnv(t, env)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://students.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingAddress(t *testing.T) {
	env := mysqlEnv()
	env["HTTP_SERVER_ADDR"] = ""
	setEnv(t, env)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Addr")
}

func TestLoad_MySQLNeedsEndpoint(t *testing.T) {
	env := mysqlEnv()
	env["DB_HOST"] = ""
	env["DB_USER"] = ""
	setEnv(t, env)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.Host")
	assert.Contains(t, err.Error(), "Database.User")
}

func TestLoad_SQLiteNeedsPathOnly(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_SERVER_ADDR": ":8082",
		"DB_DRIVER":        "sqlite",
		"DB_HOST":          "",
		"DB_NAME":          "",
		"DB_USER":          "",
		"STORAGE_PATH":     "",
	})

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.StoragePath")
	assert.NotContains(t, err.Error(), "Database.Host")

	t.Setenv("STORAGE_PATH", "storage/students.db")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "storage/students.db", cfg.Database.StoragePath)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	tests := map[string]string{
		"ENV":       "qa",
		"DB_DRIVER": "postgres",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			setEnv(t, mysqlEnv())
			t.Setenv(key, value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "oneof")
		})
	}
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: "staging"
http_server:
  address: "localhost:9000"
database:
  driver: "sqlite"
  storage_path: "storage/test.db"
  query_timeout: "3s"
  max_open_conns: 10
`), 0o600))
	t.Setenv("DB_QUERY_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "localhost:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout, "environment wins over the file")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadWeb(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_SERVER_ADDR": ":3000",
		"API_BASE_URL":     "http://api:8082",
	})

	cfg, err := LoadWeb("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTPServer.Addr)
	assert.Equal(t, "http://api:8082", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestLoadWeb_InvalidBaseURL(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_SERVER_ADDR": ":3000",
		"API_BASE_URL":     "not a url",
	})

	_, err := LoadWeb("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API.BaseURL")
}

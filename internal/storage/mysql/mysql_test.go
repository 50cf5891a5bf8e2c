package mysql

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-registration/internal/config"
)

func TestDSN_RoundTrips(t *testing.T) {
	cfg := config.Database{
		Host:     "students.abc123.eu-west-1.rds.amazonaws.com",
		Port:     3306,
		Name:     "students",
		User:     "admin",
		Password: "p@ss/w:rd?",
	}

	parsed, err := mysql.ParseDSN(DSN(cfg))
	require.NoError(t, err, "DSN must be parseable by the driver")

	assert.Equal(t, "admin", parsed.User)
	assert.Equal(t, "p@ss/w:rd?", parsed.Passwd, "special characters survive without manual escaping")
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "students.abc123.eu-west-1.rds.amazonaws.com:3306", parsed.Addr)
	assert.Equal(t, "students", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
}

func TestDSN_IPv6Host(t *testing.T) {
	parsed, err := mysql.ParseDSN(DSN(config.Database{Host: "::1", Port: 3307, Name: "db", User: "u"}))
	require.NoError(t, err)
	assert.Equal(t, "[::1]:3307", parsed.Addr)
}

func TestDialector_Name(t *testing.T) {
	d := Dialector(config.Database{Host: "localhost", Port: 3306, Name: "db", User: "u"})
	assert.Equal(t, "mysql", d.Name())
}

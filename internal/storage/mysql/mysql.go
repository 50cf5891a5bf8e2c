// Package mysql turns the database settings into a GORM dialector for a
// MySQL server, such as the managed instance used in deployment.
package mysql

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/aanand-mishra/students-registration/internal/config"
)

// dialTimeout bounds a single TCP connect attempt. The startup retry loop
// decides how many attempts are made.
const dialTimeout = 5 * time.Second

// DSN builds the go-sql-driver connection string for cfg.
//
// The password is passed through mysql.Config, so characters such as '@'
// or '/' do not need escaping by the operator.
func DSN(cfg config.Database) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Timeout = dialTimeout
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Dialector returns a fresh GORM dialector for cfg.
func Dialector(cfg config.Database) gorm.Dialector {
	return gormmysql.New(gormmysql.Config{
		DSN: DSN(cfg),
		// VARCHAR(255) columns must fit the utf8mb4 index limit.
		DefaultStringSize: 255,
	})
}

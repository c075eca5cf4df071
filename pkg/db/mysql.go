// pkg/db/mysql.go
// Helper koneksi MySQL (database/sql + go-sql-driver/mysql)

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options parameter koneksi. DSN (kalau diisi) menang atas field lain.
type Options struct {
	DSN      string
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	MaxOpen  int
	MaxIdle  int
}

// Configured false kalau DSN maupun host tidak diisi (mode tanpa DB).
func (o Options) Configured() bool {
	return o.DSN != "" || o.Host != ""
}

// FormatDSN membangun DSN dengan parseTime=true.
func (o Options) FormatDSN() string {
	if o.DSN != "" {
		return o.DSN
	}
	c := mysql.NewConfig()
	c.User = o.User
	c.Passwd = o.Password
	c.Net = "tcp"
	c.Addr = o.Host + ":" + o.Port
	if o.Port == "" {
		c.Addr = o.Host + ":3306"
	}
	c.DBName = o.DB
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN()
}

// NewMySQL membuka pool dan mengatur limit koneksi. Belum ping.
func NewMySQL(o Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if o.MaxOpen > 0 {
		db.SetMaxOpenConns(o.MaxOpen)
	}
	if o.MaxIdle > 0 {
		db.SetMaxIdleConns(o.MaxIdle)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// WaitReady ping berulang agar tahan saat container DB baru up.
func WaitReady(ctx context.Context, db *sql.DB, tries int, every time.Duration) error {
	var err error
	for i := 0; i < tries; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(every):
		}
	}
	return fmt.Errorf("mysql not ready after %d tries: %w", tries, err)
}

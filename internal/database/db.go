// Package database opens the MySQL connection used by the mysql movie
// source and the seed command.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Settings are the connection parameters from config.Config.
type Settings struct {
	User, Pass, Host, Port, Name string
}

// DSN renders the driver connection string.  Times are parsed and kept
// in UTC.
func (s Settings) DSN() string {
	c := mysql.NewConfig()
	c.User = s.User
	c.Passwd = s.Pass
	c.Net = "tcp"
	c.Addr = s.Host + ":" + s.Port
	c.DBName = s.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(s Settings) (*sql.DB, error) {
	db, err := sql.Open("mysql", s.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", s.Addr(), err)
	}
	return db, nil
}

// Addr is host:port.
func (s Settings) Addr() string { return s.Host + ":" + s.Port }

// Schema creates the movie document table.  Each row holds one catalog
// entry as a JSON document keyed by movie id.
const Schema = `CREATE TABLE IF NOT EXISTS movies (
	id         VARCHAR(64) NOT NULL PRIMARY KEY,
	doc        JSON        NOT NULL,
	updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	return nil
}

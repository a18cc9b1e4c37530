package database

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDSN(t *testing.T) {
	s := Settings{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "moviex"}

	cfg, err := mysql.ParseDSN(s.DSN())
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "moviex", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Contains(t, s.DSN(), "charset=utf8mb4")
}

func TestSettingsDSN_NoPassword(t *testing.T) {
	s := Settings{User: "root", Host: "localhost", Port: "3306", Name: "moviex"}
	assert.True(t, strings.HasPrefix(s.DSN(), "root@tcp(localhost:3306)/moviex?"), s.DSN())
}

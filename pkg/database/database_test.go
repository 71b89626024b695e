package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMySQLDSN(t *testing.T) {
	cfg := Config{User: "root", Password: "secret", Host: "db", Port: "3306", Name: "medinote"}

	assert.Equal(t, "root:secret@tcp(db:3306)/medinote?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(cfg))

	cfg.DSN = "custom"
	assert.Equal(t, "custom", buildMySQLDSN(cfg))
}

func TestBuildPostgresDSN(t *testing.T) {
	cfg := Config{User: "medinote", Password: "pw", Host: "localhost", Port: "5432", Name: "medinote"}

	assert.Equal(t,
		"host=localhost port=5432 user=medinote password=pw dbname=medinote sslmode=disable TimeZone=UTC",
		buildPostgresDSN(cfg))
}

func TestDialectorFor_UnknownDriver(t *testing.T) {
	_, err := dialectorFor(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewConnection_SQLiteInMemory(t *testing.T) {
	db, err := NewConnection(context.Background(), Config{Driver: DriverSQLite, LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

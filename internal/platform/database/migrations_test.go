package database_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/airline_desk/internal/config"
	"github.com/srgjo27/airline_desk/internal/platform/database"
)

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tickets").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_tickets_username_seq").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, database.RunMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnError(errors.New("permission denied"))

	err = database.RunMigrations(context.Background(), db)
	assert.ErrorContains(t, err, "permission denied")
}

func TestDSN(t *testing.T) {
	dsn := database.DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "desk", Password: "secret", DBName: "airline", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://desk:secret@db:5432/airline?sslmode=disable", dsn)
}

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := database.DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "desk", Password: "p@ss/w#rd", DBName: "airline", SSLMode: "disable",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)

	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "desk", u.User.Username())
	password, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss/w#rd", password)
	assert.Equal(t, "/airline", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

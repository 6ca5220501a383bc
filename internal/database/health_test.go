package database

import (
	"context"
	"errors"
	"testing"

	"cleanearth/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewManagerWithDB(db, &config.DatabaseConfig{}, zap.NewNop()), mock
}

func TestHealthHealthy(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectPing()
	for _, table := range criticalTables {
		mock.ExpectQuery("information_schema.tables").
			WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}

	status := Health(context.Background(), manager)

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Empty(t, status.Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthPingFailure(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	status := Health(context.Background(), manager)

	assert.Equal(t, StatusUnhealthy, status.Status)
	require.Len(t, status.Errors, 1)
	assert.Contains(t, status.Errors[0], "connection refused")
}

func TestHealthMissingTable(t *testing.T) {
	manager, mock := newMockManager(t)

	mock.ExpectPing()
	for i, table := range criticalTables {
		mock.ExpectQuery("information_schema.tables").
			WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(i != 0))
	}

	status := Health(context.Background(), manager)

	assert.Equal(t, StatusDegraded, status.Status)
	assert.Contains(t, status.Errors[0], "users")
}

func TestHealthNilManager(t *testing.T) {
	status := Health(context.Background(), nil)
	assert.Equal(t, StatusUnhealthy, status.Status)
}

func TestTruncateQuery(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncateQuery(string(long)), 203)
	assert.Equal(t, "SELECT 1", truncateQuery("SELECT 1"))
}

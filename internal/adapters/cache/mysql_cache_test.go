package cache

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mikey/sms-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMySQLCache(t *testing.T) (*MySQLCache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	c := newMySQLCacheWithDB(db, zap.NewNop(), time.Hour)
	t.Cleanup(func() {
		mock.ExpectClose()
		c.Stop()
	})
	return c, mock
}

func TestMySQLCacheGet(t *testing.T) {
	c, mock := newTestMySQLCache(t)

	lastSeen := time.Now().Add(-time.Minute)
	rows := sqlmock.NewRows([]string{"category", "confidence", "last_seen"}).
		AddRow("spam", 0.91, lastSeen)
	mock.ExpectQuery("SELECT category, confidence, last_seen").
		WithArgs("key1").
		WillReturnRows(rows)

	got, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "spam", got.Category)
	assert.Equal(t, 0.91, got.Confidence)
	assert.Equal(t, "cache", got.ModelUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCacheGetMiss(t *testing.T) {
	c, mock := newTestMySQLCache(t)

	mock.ExpectQuery("SELECT category, confidence, last_seen").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"category", "confidence", "last_seen"}))

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCacheSet(t *testing.T) {
	c, mock := newTestMySQLCache(t)

	mock.ExpectExec("REPLACE INTO classification_cache").
		WithArgs("key1", "promotional", 0.66, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c.Set("key1", &core.Classification{
		Category:     "promotional",
		Confidence:   0.66,
		ClassifiedAt: time.Now(),
	}, time.Hour)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCacheDelete(t *testing.T) {
	c, mock := newTestMySQLCache(t)

	mock.ExpectExec("DELETE FROM classification_cache").
		WithArgs("key1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, c.Delete(context.Background(), "key1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCacheCleanup(t *testing.T) {
	c, mock := newTestMySQLCache(t)

	mock.ExpectExec("DELETE FROM classification_cache").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, c.Cleanup(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

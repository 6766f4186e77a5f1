package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_Add(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)
	userID := uuid.New()

	mock.ExpectExec(`INSERT INTO user_schedule \(user_id, section_ref\)\s+VALUES \(\$1, \$2\)\s+ON CONFLICT \(user_id, section_ref\) DO NOTHING`).
		WithArgs(userID, "CRN123").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_schedule`).
		WithArgs(userID, "CRN123").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	added, err := repo.Add(context.Background(), userID, "CRN123")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(context.Background(), userID, "CRN123")
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepository_Add_DBError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)

	mock.ExpectExec(`INSERT INTO user_schedule`).WillReturnError(errors.New("db down"))

	_, err := repo.Add(context.Background(), uuid.New(), "CRN123")
	assert.Error(t, err)
}

func TestScheduleRepository_Remove(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM user_schedule WHERE user_id = \$1 AND section_ref = \$2`).
		WithArgs(userID, "CRN123").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	removed, err := repo.Remove(context.Background(), userID, "CRN123")
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)
	userID := uuid.New()

	rows := pgxmock.NewRows([]string{"section_ref"}).AddRow("CRN2").AddRow("CRN1")
	mock.ExpectQuery(`SELECT section_ref FROM user_schedule WHERE user_id = \$1 ORDER BY position`).
		WithArgs(userID).
		WillReturnRows(rows)

	refs, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CRN2", "CRN1"}, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepository_List_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewScheduleRepository(mock)
	userID := uuid.New()

	mock.ExpectQuery(`FROM user_schedule`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"section_ref"}))

	refs, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLedger(t *testing.T) (*ledgerRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newLedgerRepo(mock, log.DefaultLogger), mock
}

func TestLedgerRepo_Insert(t *testing.T) {
	repo, mock := newMockLedger(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO moderation_results \(subject,flagged,categories\) VALUES \(\$1,\$2,\$3\) RETURNING id, created_at`).
		WithArgs("free toxicity score 0.9", true, []byte(`{"toxicity_score":0.9}`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	v, err := repo.Insert(context.Background(), "free toxicity score 0.9", true, map[string]any{"toxicity_score": 0.9})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.ID)
	assert.Equal(t, now, v.CreatedAt)
	assert.True(t, v.Flagged)
	assert.Equal(t, 0.9, v.Categories["toxicity_score"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_InsertError(t *testing.T) {
	repo, mock := newMockLedger(t)
	mock.ExpectQuery(`INSERT INTO moderation_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	v, err := repo.Insert(context.Background(), "hi", false, nil)
	assert.Error(t, err)
	assert.Nil(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "subject", "flagged", "categories", "created_at"}).
					AddRow(int64(3), "hello", false, []byte(`{"toxicity_score":0.1}`), now)
				mock.ExpectQuery(`SELECT id, subject, flagged, categories, created_at FROM moderation_results WHERE id = \$1`).
					WithArgs(int64(3)).
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).WithArgs(int64(3)).WillReturnError(errors.New("boom"))
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockLedger(t)
			tt.setup(mock)

			v, err := repo.GetByID(context.Background(), 3)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, v)
			} else {
				require.NotNil(t, v)
				assert.Equal(t, "hello", v.Subject)
				assert.Equal(t, 0.1, v.Categories["toxicity_score"])
				assert.Equal(t, now, v.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLedgerRepo_Counts(t *testing.T) {
	repo, mock := newMockLedger(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM moderation_results$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM moderation_results WHERE flagged = \$1`).
		WithArgs(true).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	flagged, err := repo.CountFlagged(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(2), flagged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ScanCategories(t *testing.T) {
	repo, mock := newMockLedger(t)

	rows := pgxmock.NewRows([]string{"categories"}).
		AddRow([]byte(`{"toxicity_score":0.9}`)).
		AddRow([]byte(`not json`)).
		AddRow([]byte(`{"adult":"LIKELY","violence":"UNLIKELY"}`))
	mock.ExpectQuery(`SELECT categories FROM moderation_results ORDER BY id`).WillReturnRows(rows)

	var seen []map[string]any
	err := repo.ScanCategories(context.Background(), func(c map[string]any) error {
		seen = append(seen, c)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "LIKELY", seen[1]["adult"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ScanCategoriesStopsOnCallbackError(t *testing.T) {
	repo, mock := newMockLedger(t)

	rows := pgxmock.NewRows([]string{"categories"}).
		AddRow([]byte(`{"a":1}`)).
		AddRow([]byte(`{"b":1}`))
	mock.ExpectQuery(`SELECT categories`).WillReturnRows(rows)

	stop := errors.New("stop")
	calls := 0
	err := repo.ScanCategories(context.Background(), func(map[string]any) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestLedgerRepo_Ping(t *testing.T) {
	repo, mock := newMockLedger(t)
	mock.ExpectPing().WillReturnError(errors.New("down"))

	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

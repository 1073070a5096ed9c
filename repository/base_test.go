/*
 * Copyright 2026 matejhozlar.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matejhozlar/rowkit/database"
	"github.com/matejhozlar/rowkit/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

func newTestRepo(t *testing.T, dialect schema.Dialect) (Repository[types.Record], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := New[types.Record](bun.NewDB(db, dialect), Definition[types.Record]{
		Name:  "ticket",
		Table: "tickets",
	})
	require.NoError(t, err)
	return repo, mock
}

func TestNewRejectsInvalidTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New[types.Record](bun.NewDB(db, pgdialect.New()), Definition[types.Record]{
		Table: "tickets; DROP TABLE users",
	})
	require.Error(t, err)
}

func TestNewRequiresDecodeForTypedEntities(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	type ticket struct{ ID string }
	_, err = New[ticket](bun.NewDB(db, pgdialect.New()), Definition[ticket]{Table: "tickets"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Decode")
}

func TestFind(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1 LIMIT 1")).
			WithArgs("t1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id", "status"}).
				AddRow("t1", "c1", "open"))

		rec, err := repo.Find(context.Background(), types.Fields{types.F("id", "t1")})
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "c1", (*rec)["channelId"])
		assert.Equal(t, "open", (*rec)["status"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no_match_returns_nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1 LIMIT 1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		rec, err := repo.Find(context.Background(), types.Fields{types.F("id", "missing")})
		require.NoError(t, err)
		assert.Nil(t, rec)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_identifier_rejected", func(t *testing.T) {
		_, err := repo.Find(context.Background(), nil)
		require.Error(t, err)
		// nothing reaches the store
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id := types.Fields{types.F("id", "missing")}
	_, err := repo.Get(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ticket", nf.Entity)
	assert.Equal(t, id, nf.Criteria)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), types.Fields{types.F("id", "t1")})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (id, channel_id, status) VALUES ($1, $2, $3)")).
		WithArgs("t1", "c1", "open").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), types.Fields{
		types.F("id", "t1"),
		types.F("channelId", "c1"),
		types.F("status", "open"),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndReturn(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tickets (id, status) VALUES ($1, $2) RETURNING *")).
		WithArgs("t1", "open").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).
			AddRow("t1", "open", "2026-01-02"))

	rec, err := repo.CreateAndReturn(context.Background(), types.Fields{
		types.F("id", "t1"),
		types.F("status", "open"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", (*rec)["createdAt"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("identifier_binds_before_set", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = $2, channel_id = $3 WHERE id = $1")).
			WithArgs("t1", "closed", "c2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(),
			types.Fields{types.F("id", "t1")},
			types.Fields{types.F("status", "closed"), types.F("channelId", "c2")})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero_rows_is_not_found", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = $2 WHERE id = $1")).
			WithArgs("missing", "closed").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(),
			types.Fields{types.F("id", "missing")},
			types.Fields{types.F("status", "closed")})
		assert.True(t, IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateAndReturn(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("returns_updated_row", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tickets SET status = $2 WHERE id = $1 RETURNING *")).
			WithArgs("t1", "closed").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("t1", "closed"))

		rec, err := repo.UpdateAndReturn(context.Background(),
			types.Fields{types.F("id", "t1")},
			types.Fields{types.F("status", "closed")})
		require.NoError(t, err)
		assert.Equal(t, "closed", (*rec)["status"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero_rows_is_not_found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tickets SET status = $2 WHERE id = $1 RETURNING *")).
			WithArgs("missing", "closed").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

		_, err := repo.UpdateAndReturn(context.Background(),
			types.Fields{types.F("id", "missing")},
			types.Fields{types.F("status", "closed")})
		assert.True(t, IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("deletes_matching_row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets WHERE id = $1")).
			WithArgs("t1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), types.Fields{types.F("id", "t1")})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero_rows_is_not_found", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets WHERE id = $1")).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), types.Fields{types.F("id", "missing")})
		assert.True(t, IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindAll(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("filtered_and_windowed", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT * FROM tickets WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
			WithArgs("open", 10, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
				AddRow("t1", "open").
				AddRow("t2", "open"))

		recs, err := repo.FindAll(context.Background(),
			types.Fields{types.F("status", "open")},
			&types.ListOptions{OrderBy: "createdAt", Direction: types.Descending, Limit: 10, Offset: 20})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "t1", (*recs[0])["id"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no_filters_selects_everything", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		recs, err := repo.FindAll(context.Background(), nil, nil)
		require.NoError(t, err)
		require.NotNil(t, recs)
		assert.Empty(t, recs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent_values_are_skipped", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE status = $1")).
			WithArgs("open").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))

		_, err := repo.FindAll(context.Background(), types.Fields{
			types.F("channelId", types.Absent),
			types.F("status", "open"),
		}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateAll(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("filtered", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = $2 WHERE status = $1")).
			WithArgs("open", "closed").
			WillReturnResult(sqlmock.NewResult(0, 3))

		affected, err := repo.UpdateAll(context.Background(),
			types.Fields{types.F("status", "closed")},
			types.Fields{types.F("status", "open")})
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_filter_updates_whole_table", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = $1")).
			WithArgs("archived").
			WillReturnResult(sqlmock.NewResult(0, 7))

		affected, err := repo.UpdateAll(context.Background(),
			types.Fields{types.F("status", "archived")}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(7), affected)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteAll(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("filtered", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets WHERE status = $1")).
			WithArgs("closed").
			WillReturnResult(sqlmock.NewResult(0, 2))

		affected, err := repo.DeleteAll(context.Background(),
			types.Fields{types.F("status", "closed")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_filter_rejected_before_store", func(t *testing.T) {
		_, err := repo.DeleteAll(context.Background(), nil)
		require.ErrorIs(t, err, ErrEmptyFilter)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all_absent_filter_rejected", func(t *testing.T) {
		_, err := repo.DeleteAll(context.Background(),
			types.Fields{types.F("status", types.Absent)})
		require.ErrorIs(t, err, ErrEmptyFilter)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDrop(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets")).
		WillReturnResult(sqlmock.NewResult(0, 42))

	deleted, err := repo.Drop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets WHERE status = $1")).
		WithArgs("open").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.Count(context.Background(), types.Fields{types.F("status", "open")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPage(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("counts_then_lists", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets WHERE status = $1")).
			WithArgs("open").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE status = $1 LIMIT $2 OFFSET $3")).
			WithArgs("open", 5, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
				AddRow("t6", "open").
				AddRow("t7", "open"))

		page, err := repo.Page(context.Background(), types.NewPageRequest(
			2, 5, types.Fields{types.F("status", "open")}, "", types.Ascending))
		require.NoError(t, err)
		assert.Equal(t, int64(12), page.Total)
		assert.Equal(t, 2, page.Page)
		require.Len(t, page.Items, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero_total_skips_listing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		page, err := repo.Page(context.Background(), types.NewDefaultPageRequest(1, 10))
		require.NoError(t, err)
		assert.Zero(t, page.Total)
		assert.Empty(t, page.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsert(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	t.Run("updates_subset_on_conflict", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"INSERT INTO tickets (id, status) VALUES ($1, $2)"+
				" ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status RETURNING *")).
			WithArgs("t1", "open").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("t1", "open"))

		rec, err := repo.Upsert(context.Background(),
			types.Fields{types.F("id", "t1"), types.F("status", "open")},
			[]string{"id"}, []string{"status"})
		require.NoError(t, err)
		assert.Equal(t, "open", (*rec)["status"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults_to_all_inserted_fields", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"INSERT INTO tickets (id, status) VALUES ($1, $2)"+
				" ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id, status = EXCLUDED.status RETURNING *")).
			WithArgs("t1", "closed").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("t1", "closed"))

		_, err := repo.Upsert(context.Background(),
			types.Fields{types.F("id", "t1"), types.F("status", "closed")},
			[]string{"id"}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRaw(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE status = $1")).
		WithArgs("open").
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id"}).AddRow("t1", "c1"))

	recs, err := repo.Raw(context.Background(), "SELECT * FROM tickets WHERE status = $1", "open")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", (*recs[0])["channelId"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionPlaceholderDialect(t *testing.T) {
	repo, mock := newTestRepo(t, sqlitedialect.New())

	t.Run("select", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = ? LIMIT 1")).
			WithArgs("t1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))

		_, err := repo.Find(context.Background(), types.Fields{types.F("id", "t1")})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update_binds_in_text_order", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = ? WHERE id = ?")).
			WithArgs("closed", "t1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(),
			types.Fields{types.F("id", "t1")},
			types.Fields{types.F("status", "closed")})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTypedDecode(t *testing.T) {
	type ticket struct {
		ID      string
		Channel string
		Status  string
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo, err := New[ticket](bun.NewDB(db, pgdialect.New()), Definition[ticket]{
		Table: "tickets",
		Decode: func(rec types.Record) (*ticket, error) {
			tk := &ticket{}
			tk.ID, _ = rec["id"].(string)
			tk.Channel, _ = rec["channelId"].(string)
			tk.Status, _ = rec["status"].(string)
			return tk, nil
		},
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1 LIMIT 1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_id", "status"}).
			AddRow("t1", "c1", "open"))

	tk, err := repo.Get(context.Background(), types.Fields{types.F("id", "t1")})
	require.NoError(t, err)
	assert.Equal(t, &ticket{ID: "t1", Channel: "c1", Status: "open"}, tk)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx(t *testing.T) {
	t.Run("commits_on_success", func(t *testing.T) {
		repo, mock := newTestRepo(t, pgdialect.New())

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (id) VALUES ($1)")).
			WithArgs("t1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.RunInTx(context.Background(), func(ctx context.Context, tx Repository[types.Record]) error {
			return tx.Create(ctx, types.Fields{types.F("id", "t1")})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_error", func(t *testing.T) {
		repo, mock := newTestRepo(t, pgdialect.New())

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (id) VALUES ($1)")).
			WithArgs("t1").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.RunInTx(context.Background(), func(ctx context.Context, tx Repository[types.Record]) error {
			return tx.Create(ctx, types.Fields{types.F("id", "t1")})
		})
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_fn_error_without_statement", func(t *testing.T) {
		repo, mock := newTestRepo(t, pgdialect.New())

		mock.ExpectBegin()
		mock.ExpectRollback()

		sentinel := errors.New("nope")
		err := repo.RunInTx(context.Background(), func(ctx context.Context, tx Repository[types.Record]) error {
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls_back_on_panic", func(t *testing.T) {
		repo, mock := newTestRepo(t, pgdialect.New())

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = repo.RunInTx(context.Background(), func(ctx context.Context, tx Repository[types.Record]) error {
				panic("boom")
			})
		})
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithTx(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)

	count, err := repo.WithTx(tx).Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintErrorClassification(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (id) VALUES ($1)")).
		WithArgs("t1").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tickets_pkey"})

	err := repo.Create(context.Background(), types.Fields{types.F("id", "t1")})
	require.Error(t, err)

	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "tickets", ce.Table)
	assert.Equal(t, "tickets_pkey", ce.Constraint)
	require.NoError(t, mock.ExpectationsWereMet())
}

type logEntry struct {
	level  string
	msg    string
	fields []interface{}
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) SetLevel(database.LogLevel) {}

func (l *captureLogger) record(level, msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) Debug(msg string, fields ...interface{}) { l.record("debug", msg, fields...) }
func (l *captureLogger) Info(msg string, fields ...interface{})  { l.record("info", msg, fields...) }
func (l *captureLogger) Warn(msg string, fields ...interface{})  { l.record("warn", msg, fields...) }
func (l *captureLogger) Error(msg string, fields ...interface{}) { l.record("error", msg, fields...) }

func (l *captureLogger) find(level, query string) *logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		e := &l.entries[i]
		if e.level != level {
			continue
		}
		for _, f := range e.fields {
			if s, ok := f.(string); ok && strings.Contains(s, query) {
				return e
			}
		}
	}
	return nil
}

func TestQueryLogging(t *testing.T) {
	newLoggedRepo := func(t *testing.T) (Repository[types.Record], sqlmock.Sqlmock, *captureLogger) {
		t.Helper()
		repo, mock := newTestRepo(t, pgdialect.New())
		capture := &captureLogger{}
		repo.(*baseRepositoryImpl[types.Record]).logger = capture
		t.Cleanup(func() { database.ConfigureQueryLog(false, 0) })
		return repo, mock, capture
	}

	t.Run("enabled_logs_repository_statements", func(t *testing.T) {
		repo, mock, capture := newLoggedRepo(t)
		database.ConfigureQueryLog(true, 0)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM tickets WHERE id = $1 LIMIT 1")).
			WithArgs("t1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))

		_, err := repo.Find(context.Background(), types.Fields{types.F("id", "t1")})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())

		entry := capture.find("debug", "SELECT * FROM tickets WHERE id = $1 LIMIT 1")
		require.NotNil(t, entry, "enabling query logging must surface the executed statement")
	})

	t.Run("enabled_logs_mutations", func(t *testing.T) {
		repo, mock, capture := newLoggedRepo(t)
		database.ConfigureQueryLog(true, 0)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets WHERE id = $1")).
			WithArgs("t1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), types.Fields{types.F("id", "t1")}))
		require.NoError(t, mock.ExpectationsWereMet())

		require.NotNil(t, capture.find("debug", "DELETE FROM tickets WHERE id = $1"))
	})

	t.Run("disabled_stays_silent", func(t *testing.T) {
		repo, mock, capture := newLoggedRepo(t)
		database.ConfigureQueryLog(false, 0)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.Count(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, capture.find("debug", "SELECT COUNT(*) FROM tickets"))
	})

	t.Run("slow_statements_are_warned", func(t *testing.T) {
		repo, mock, capture := newLoggedRepo(t)
		database.ConfigureQueryLog(false, time.Nanosecond)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.Count(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, capture.find("warn", "SELECT COUNT(*) FROM tickets"))
	})
}

func TestQueryErrorCarriesStatement(t *testing.T) {
	repo, mock := newTestRepo(t, pgdialect.New())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Count(context.Background(), nil)
	require.Error(t, err)

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "SELECT COUNT(*) FROM tickets", qe.Query)
	require.NoError(t, mock.ExpectationsWereMet())
}

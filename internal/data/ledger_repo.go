package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moderation/internal/biz"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
)

const ledgerTable = "moderation_results"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ledgerRepo struct {
	db  Querier
	log *log.Helper
}

// NewLedgerRepo creates the postgres-backed verdict ledger.
func NewLedgerRepo(data *Data, logger log.Logger) biz.Ledger {
	return newLedgerRepo(data.Pool, logger)
}

func newLedgerRepo(db Querier, logger log.Logger) *ledgerRepo {
	return &ledgerRepo{
		db:  db,
		log: log.NewHelper(log.With(logger, "module", "data/ledger")),
	}
}

func (r *ledgerRepo) Insert(ctx context.Context, subject string, flagged bool, categories map[string]any) (*biz.Verdict, error) {
	if categories == nil {
		categories = map[string]any{}
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}

	query, args, err := psql.Insert(ledgerTable).
		Columns("subject", "flagged", "categories").
		Values(subject, flagged, raw).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	v := &biz.Verdict{
		Subject:    subject,
		Flagged:    flagged,
		Categories: categories,
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert verdict: %w", err)
	}
	return v, nil
}

func (r *ledgerRepo) GetByID(ctx context.Context, id int64) (*biz.Verdict, error) {
	query, args, err := psql.Select("id", "subject", "flagged", "categories", "created_at").
		From(ledgerTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		v   biz.Verdict
		raw []byte
		at  time.Time
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.Subject, &v.Flagged, &raw, &at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("get verdict %d: %w", id, err)
	}
	if v.Categories, err = decodeCategories(raw); err != nil {
		return nil, fmt.Errorf("verdict %d: %w", id, err)
	}
	v.CreatedAt = at
	return &v, nil
}

func (r *ledgerRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From(ledgerTable))
}

func (r *ledgerRepo) CountFlagged(ctx context.Context) (int64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From(ledgerTable).Where(sq.Eq{"flagged": true}))
}

func (r *ledgerRepo) count(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verdicts: %w", err)
	}
	return n, nil
}

// ScanCategories streams the categories of every row, oldest first.
func (r *ledgerRepo) ScanCategories(ctx context.Context, fn func(categories map[string]any) error) error {
	query, args, err := psql.Select("categories").From(ledgerTable).OrderBy("id").ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("scan categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan categories: %w", err)
		}
		categories, err := decodeCategories(raw)
		if err != nil {
			r.log.WithContext(ctx).Warnf("skipping row with undecodable categories: %v", err)
			continue
		}
		if err := fn(categories); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *ledgerRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func decodeCategories(raw []byte) (map[string]any, error) {
	categories := map[string]any{}
	if len(raw) == 0 {
		return categories, nil
	}
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

package ledger

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS invoices (
	id          TEXT PRIMARY KEY,
	invoice_id  TEXT NOT NULL UNIQUE,
	kind        TEXT NOT NULL,
	client      TEXT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	date        DATE NOT NULL,
	total       NUMERIC NOT NULL,
	total_tax   NUMERIC NOT NULL,
	currency    TEXT NOT NULL,
	path        TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS invoices_date_idx ON invoices (date);
`

const recordColumns = `id, invoice_id, kind, client, subject, date, total::text, total_tax::text,
	currency, path, fingerprint, created_at`

// PostgresStore keeps records in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the invoices table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "postgres dsn")
	}

	var pool *pgxpool.Pool
	err = RetryWithBackoff(ctx, func() error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "postgres pool")
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "connect to postgres"))
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create invoices table")
	}
	return &PostgresStore{pool: pool}, nil
}

// Put upserts rec. An existing row keeps its ID, which is written back to rec.
func (s *PostgresStore) Put(ctx context.Context, rec *Record) error {
	const q = `
INSERT INTO invoices (id, invoice_id, kind, client, subject, date, total, total_tax, currency, path, fingerprint, created_at)
VALUES ($1, $2, $3, $4, $5, $6, CAST($7::text AS NUMERIC), CAST($8::text AS NUMERIC), $9, $10, $11, $12)
ON CONFLICT (invoice_id) DO UPDATE SET
	kind = EXCLUDED.kind,
	client = EXCLUDED.client,
	subject = EXCLUDED.subject,
	date = EXCLUDED.date,
	total = EXCLUDED.total,
	total_tax = EXCLUDED.total_tax,
	currency = EXCLUDED.currency,
	path = EXCLUDED.path,
	fingerprint = EXCLUDED.fingerprint,
	created_at = EXCLUDED.created_at
RETURNING id`

	err := s.pool.QueryRow(ctx, q,
		rec.ID, rec.InvoiceID, rec.Kind, rec.Client, rec.Subject, rec.Date,
		rec.Total.String(), rec.TotalTax.String(),
		rec.Currency, rec.Path, rec.Fingerprint, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store %s", rec.InvoiceID)
	}
	return nil
}

// Get fetches the record of invoiceID.
func (s *PostgresStore) Get(ctx context.Context, invoiceID string) (*Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM invoices WHERE invoice_id = $1`, invoiceID)
	rec, err := scanRecord(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(invoiceID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", invoiceID)
	}
	return rec, nil
}

// List returns the matching records ordered by date.
func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	var (
		where []string
		args  []any
	)
	if f.Year != 0 {
		args = append(args, f.Year)
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM date) = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.Client != "" {
		args = append(args, escapeLike(f.Client))
		where = append(where, fmt.Sprintf(`client ILIKE '%%' || $%d || '%%' ESCAPE '\'`, len(args)))
	}

	q := `SELECT ` + recordColumns + ` FROM invoices`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date, invoice_id"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list records")
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan record")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list records")
	}
	return recs, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec             Record
		total, totalTax string
	)
	err := row.Scan(&rec.ID, &rec.InvoiceID, &rec.Kind, &rec.Client, &rec.Subject, &rec.Date,
		&total, &totalTax, &rec.Currency, &rec.Path, &rec.Fingerprint, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if rec.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	if rec.TotalTax, err = decimal.NewFromString(totalTax); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ensure PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package report

import (
	"context"
	"database/sql"
	"fmt"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Store {
	return &repo{db: db}
}

// EnsureSchema creates the reports table and indexes when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id BIGSERIAL PRIMARY KEY,
			report_id TEXT UNIQUE NOT NULL,
			numeric_id BIGINT,
			origin_chat_id BIGINT NOT NULL,
			origin_message_id BIGINT NOT NULL,
			author_id BIGINT NOT NULL,
			author_username TEXT,
			author_first_name TEXT,
			tag TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			admin_message_id BIGINT,
			admin_chat_id BIGINT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_tag ON reports(tag)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reports schema: %w", err)
		}
	}
	return nil
}

func (r *repo) Add(ctx context.Context, rep *Report) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reports
			(report_id, origin_chat_id, origin_message_id, author_id,
			 author_username, author_first_name, tag, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new')
		ON CONFLICT (report_id) DO NOTHING
		RETURNING id
	`,
		rep.ReportID,
		rep.OriginChatID,
		rep.OriginMessageID,
		rep.AuthorID,
		rep.AuthorUsername,
		rep.AuthorFirstName,
		rep.Tag,
		rep.Content,
	).Scan(&id)
	if err == sql.ErrNoRows {
		// Репорт уже существует.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// numeric_id дублирует id: только для отображения.
	if _, err := r.db.ExecContext(ctx,
		`UPDATE reports SET numeric_id = id WHERE report_id = $1`, rep.ReportID,
	); err != nil {
		return false, err
	}

	rep.NumericID = id
	rep.Status = StatusNew
	return true, nil
}

const selectColumns = `
	report_id, COALESCE(numeric_id, id), origin_chat_id, origin_message_id,
	author_id, COALESCE(author_username, ''), COALESCE(author_first_name, ''),
	tag, content, status, created_at, updated_at, admin_message_id, admin_chat_id
`

func (r *repo) Get(ctx context.Context, reportID string) (*Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM reports WHERE report_id = $1`, reportID)

	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *repo) UpdateStatus(ctx context.Context, reportID string, status Status, adminMessageID, adminChatID *int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = $1,
		    updated_at = now(),
		    admin_message_id = COALESCE($2, admin_message_id),
		    admin_chat_id = COALESCE($3, admin_chat_id)
		WHERE report_id = $4
	`, string(status), adminMessageID, adminChatID, reportID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]Report, error) {
	query := `SELECT ` + selectColumns + ` FROM reports WHERE 1=1`
	args := make([]any, 0, 4)

	if f.Tag != "" {
		args = append(args, f.Tag)
		query += fmt.Sprintf(" AND tag = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *repo) Count(ctx context.Context, f Filter) (int, error) {
	query := `SELECT COUNT(*) FROM reports WHERE 1=1`
	args := make([]any, 0, 2)

	if f.Tag != "" {
		args = append(args, f.Tag)
		query += fmt.Sprintf(" AND tag = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*Report, error) {
	var rep Report
	var status string
	if err := s.Scan(
		&rep.ReportID,
		&rep.NumericID,
		&rep.OriginChatID,
		&rep.OriginMessageID,
		&rep.AuthorID,
		&rep.AuthorUsername,
		&rep.AuthorFirstName,
		&rep.Tag,
		&rep.Content,
		&status,
		&rep.CreatedAt,
		&rep.UpdatedAt,
		&rep.AdminMessageID,
		&rep.AdminChatID,
	); err != nil {
		return nil, err
	}
	rep.Status = Status(status)
	return &rep, nil
}

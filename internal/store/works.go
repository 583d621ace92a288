package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertWork merges one scrape result into the store as a single
// transaction. For an existing work the description and extra data are
// refreshed; a new work is inserted unless its folded title collides with
// another subscription, which surfaces as ErrTitleConflict with nothing
// written. Reported volumes are revived or inserted, and volumes the
// scrape no longer mentions are flagged gone.
func (s *Store) UpsertWork(ctx context.Context, meta WorkUpsert) error {
	if meta.WorkID == "" {
		return errors.New("work id is empty")
	}
	if strings.TrimSpace(meta.Title) == "" {
		return fmt.Errorf("work %s: title is empty", meta.WorkID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE works SET description = ?, extra_data = ? WHERE work_id = ?`,
		meta.Description, meta.ExtraData, meta.WorkID,
	)
	if err != nil {
		return fmt.Errorf("update work %s: %w", meta.WorkID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		titleKey := s.normalizer.Fold(meta.Title)
		var conflicting string
		row := tx.QueryRowContext(ctx, `SELECT work_id FROM works WHERE title_key = ?`, titleKey)
		switch err := row.Scan(&conflicting); {
		case err == nil:
			return fmt.Errorf("%w: title %q already subscribed as %s", ErrTitleConflict, meta.Title, conflicting)
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("check title conflict: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO works (work_id, title, title_key, description, extra_data) VALUES (?, ?, ?, ?, ?)`,
			meta.WorkID, meta.Title, titleKey, meta.Description, meta.ExtraData,
		); err != nil {
			return fmt.Errorf("insert work %s: %w", meta.WorkID, err)
		}
	}

	now := formatTime(time.Now())
	seen := make([]any, 0, len(meta.Volumes)+1)
	seen = append(seen, meta.WorkID)
	for _, volume := range meta.Volumes {
		res, err := tx.ExecContext(ctx,
			`UPDATE volumes SET gone = 0, name = ? WHERE work_id = ? AND volume_id = ?`,
			volume.Name, meta.WorkID, volume.VolumeID,
		)
		if err != nil {
			return fmt.Errorf("revive volume %s/%s: %w", meta.WorkID, volume.VolumeID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO volumes (work_id, volume_id, name, created_time, is_downloaded, gone)
                 VALUES (?, ?, ?, ?, 0, 0)`,
				meta.WorkID, volume.VolumeID, volume.Name, now,
			); err != nil {
				return fmt.Errorf("insert volume %s/%s: %w", meta.WorkID, volume.VolumeID, err)
			}
		}
		seen = append(seen, volume.VolumeID)
	}

	goneQuery := `UPDATE volumes SET gone = 1 WHERE work_id = ?`
	if len(meta.Volumes) > 0 {
		goneQuery += ` AND volume_id NOT IN (` + makePlaceholders(len(meta.Volumes)) + `)`
	}
	if _, err := tx.ExecContext(ctx, goneQuery, seen...); err != nil {
		return fmt.Errorf("flag gone volumes for %s: %w", meta.WorkID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert for %s: %w", meta.WorkID, err)
	}
	return nil
}

// GetWork fetches one work by id.
func (s *Store) GetWork(ctx context.Context, workID string) (*Work, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT work_id, title, description, extra_data FROM works WHERE work_id = ?`, workID)
	work, err := scanWork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: work %s", ErrNotFound, workID)
	}
	if err != nil {
		return nil, fmt.Errorf("get work %s: %w", workID, err)
	}
	return work, nil
}

// DeleteWork removes a work; its volumes cascade away with it.
func (s *Store) DeleteWork(ctx context.Context, workID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM works WHERE work_id = ?`, workID)
	if err != nil {
		return fmt.Errorf("delete work %s: %w", workID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: work %s", ErrNotFound, workID)
	}
	return nil
}

// AllWorks lists every subscription ordered by title.
func (s *Store) AllWorks(ctx context.Context) ([]Work, error) {
	return s.queryWorks(ctx,
		`SELECT work_id, title, description, extra_data FROM works ORDER BY title_key, work_id`)
}

// AllWorkIDs lists every subscribed work id in title order.
func (s *Store) AllWorkIDs(ctx context.Context) ([]string, error) {
	return s.queryWorkIDs(ctx, `SELECT work_id FROM works ORDER BY title_key, work_id`)
}

// NewWorkIDs lists works holding at least one pending volume, title order.
func (s *Store) NewWorkIDs(ctx context.Context) ([]string, error) {
	return s.queryWorkIDs(ctx,
		`SELECT DISTINCT w.work_id FROM works w
         JOIN volumes v ON v.work_id = w.work_id
         WHERE v.is_downloaded = 0 AND v.gone = 0
         ORDER BY w.title_key, w.work_id`)
}

// NewWorks lists works holding at least one pending volume, title order.
func (s *Store) NewWorks(ctx context.Context) ([]Work, error) {
	return s.queryWorks(ctx,
		`SELECT DISTINCT w.work_id, w.title, w.description, w.extra_data FROM works w
         JOIN volumes v ON v.work_id = w.work_id
         WHERE v.is_downloaded = 0 AND v.gone = 0
         ORDER BY w.title_key, w.work_id`)
}

// SearchByTitle finds works whose folded title contains the folded keyword.
// The comparison runs in application code against candidate keys so it uses
// exactly the same fold as uniqueness checking.
func (s *Store) SearchByTitle(ctx context.Context, keyword string) ([]Work, error) {
	works, err := s.AllWorks(ctx)
	if err != nil {
		return nil, err
	}
	matched := works[:0]
	for _, work := range works {
		if s.normalizer.FoldContains(work.Title, keyword) {
			matched = append(matched, work)
		}
	}
	return matched, nil
}

func (s *Store) queryWorks(ctx context.Context, query string, args ...any) ([]Work, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query works: %w", err)
	}
	defer rows.Close()

	var works []Work
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		works = append(works, *work)
	}
	return works, rows.Err()
}

func (s *Store) queryWorkIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanWork(scanner interface{ Scan(dest ...any) error }) (*Work, error) {
	var (
		work        Work
		description sql.NullString
		extraData   []byte
	)
	if err := scanner.Scan(&work.WorkID, &work.Title, &description, &extraData); err != nil {
		return nil, err
	}
	work.Description = description.String
	work.ExtraData = extraData
	return &work, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

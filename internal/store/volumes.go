package store

import (
	"context"
	"database/sql"
	"fmt"
)

const volumeColumns = "work_id, volume_id, name, created_time, is_downloaded, gone"

// SetVolumeDownloaded flips one volume's downloaded flag.
func (s *Store) SetVolumeDownloaded(ctx context.Context, workID, volumeID string, downloaded bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE volumes SET is_downloaded = ? WHERE work_id = ? AND volume_id = ?`,
		boolToInt(downloaded), workID, volumeID,
	)
	if err != nil {
		return fmt.Errorf("set downloaded %s/%s: %w", workID, volumeID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: volume %s/%s", ErrNotFound, workID, volumeID)
	}
	return nil
}

// ResetAllDownloaded marks every volume of a work as pending again.
func (s *Store) ResetAllDownloaded(ctx context.Context, workID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE volumes SET is_downloaded = 0 WHERE work_id = ?`, workID,
	); err != nil {
		return fmt.Errorf("reset downloaded for %s: %w", workID, err)
	}
	return nil
}

// VolumesForWork lists a work's volumes ordered by name.
func (s *Store) VolumesForWork(ctx context.Context, workID string) ([]Volume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+volumeColumns+` FROM volumes WHERE work_id = ? ORDER BY name, volume_id`, workID)
	if err != nil {
		return nil, fmt.Errorf("query volumes for %s: %w", workID, err)
	}
	defer rows.Close()

	var volumes []Volume
	for rows.Next() {
		volume, err := scanVolume(rows)
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, *volume)
	}
	return volumes, rows.Err()
}

// VolumesPendingDownload lists every not-downloaded, not-gone volume joined
// with its work, ordered by work title, then work id, then volume name.
// The ordering is part of the user-facing contract for download and list
// output.
func (s *Store) VolumesPendingDownload(ctx context.Context) ([]PendingVolume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.work_id, w.title, w.description, w.extra_data,
                v.work_id, v.volume_id, v.name, v.created_time, v.is_downloaded, v.gone
         FROM volumes v
         JOIN works w ON w.work_id = v.work_id
         WHERE v.is_downloaded = 0 AND v.gone = 0
         ORDER BY w.title_key, w.work_id, v.name, v.volume_id`)
	if err != nil {
		return nil, fmt.Errorf("query pending volumes: %w", err)
	}
	defer rows.Close()

	var pending []PendingVolume
	for rows.Next() {
		var (
			entry       PendingVolume
			description sql.NullString
			createdRaw  string
			downloaded  int
			gone        int
		)
		if err := rows.Scan(
			&entry.Work.WorkID, &entry.Work.Title, &description, &entry.Work.ExtraData,
			&entry.Volume.WorkID, &entry.Volume.VolumeID, &entry.Volume.Name,
			&createdRaw, &downloaded, &gone,
		); err != nil {
			return nil, err
		}
		entry.Work.Description = description.String
		entry.Volume.CreatedTime = parseTimeString(createdRaw)
		entry.Volume.IsDownloaded = downloaded != 0
		entry.Volume.Gone = gone != 0
		pending = append(pending, entry)
	}
	return pending, rows.Err()
}

// VolumeStatusFor aggregates the flag counts of one work's volumes.
func (s *Store) VolumeStatusFor(ctx context.Context, workID string) (VolumeStatus, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(is_downloaded), 0),
                COALESCE(SUM(gone), 0),
                COALESCE(MAX(created_time), '')
         FROM volumes WHERE work_id = ?`, workID)

	var (
		status  VolumeStatus
		lastRaw string
	)
	if err := row.Scan(&status.Total, &status.Downloaded, &status.Gone, &lastRaw); err != nil {
		return VolumeStatus{}, fmt.Errorf("volume status for %s: %w", workID, err)
	}
	status.LastVolume = parseTimeString(lastRaw)
	return status, nil
}

func scanVolume(scanner interface{ Scan(dest ...any) error }) (*Volume, error) {
	var (
		volume     Volume
		createdRaw string
		downloaded int
		gone       int
	)
	if err := scanner.Scan(&volume.WorkID, &volume.VolumeID, &volume.Name, &createdRaw, &downloaded, &gone); err != nil {
		return nil, err
	}
	volume.CreatedTime = parseTimeString(createdRaw)
	volume.IsDownloaded = downloaded != 0
	volume.Gone = gone != 0
	return &volume, nil
}

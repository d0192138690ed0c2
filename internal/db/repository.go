package db

import (
	"context"
	"database/sql"
	"time"

	"fieldlex-client/internal/model"
)

type Repository interface {
	InsertQueueEntry(ctx context.Context, sub model.Submission, enqueuedAt time.Time) (int64, error)
	ListQueueEntries(ctx context.Context) ([]model.QueueEntry, error)
	DeleteQueueEntry(ctx context.Context, id int64) error
	ClearQueue(ctx context.Context) error
	CountQueue(ctx context.Context) (int, error)

	InsertSubmission(ctx context.Context, sub model.Submission) error
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
	ClearSubmissions(ctx context.Context) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertQueueEntry(ctx context.Context, sub model.Submission, enqueuedAt time.Time) (int64, error) {
	query := `INSERT INTO queue_entries
		(submission_id, word_id, language_id, district_id, tehsil_id, village_id,
		 regional_text, audio_path, audio_data, created_at, enqueued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.WordID, sub.LanguageID, sub.DistrictID, sub.TehsilID,
		sub.VillageID, sub.RegionalText, sub.AudioPath, sub.AudioData,
		sub.CreatedAt, enqueuedAt)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *repository) ListQueueEntries(ctx context.Context) ([]model.QueueEntry, error) {
	query := `SELECT id, submission_id, word_id, language_id, district_id, tehsil_id,
		village_id, regional_text, audio_path, audio_data, created_at, enqueued_at
		FROM queue_entries ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.QueueEntry
	for rows.Next() {
		var entry model.QueueEntry
		err := rows.Scan(&entry.ID, &entry.Submission.ID, &entry.Submission.WordID,
			&entry.Submission.LanguageID, &entry.Submission.DistrictID,
			&entry.Submission.TehsilID, &entry.Submission.VillageID,
			&entry.Submission.RegionalText, &entry.Submission.AudioPath,
			&entry.Submission.AudioData, &entry.Submission.CreatedAt,
			&entry.EnqueuedAt)
		if err != nil {
			return nil, err
		}
		entry.Submission.Status = model.SubmissionStatusPending
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *repository) DeleteQueueEntry(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE id = ?`, id)
	return err
}

func (r *repository) ClearQueue(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM queue_entries`)
	return err
}

func (r *repository) CountQueue(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_entries`).Scan(&count)
	return count, err
}

func (r *repository) InsertSubmission(ctx context.Context, sub model.Submission) error {
	query := `INSERT INTO submissions
		(id, word_id, language_id, district_id, tehsil_id, village_id,
		 regional_text, audio_path, status, remote_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.WordID, sub.LanguageID, sub.DistrictID, sub.TehsilID,
		sub.VillageID, sub.RegionalText, sub.AudioPath, sub.Status,
		sub.RemoteID, sub.CreatedAt)
	return err
}

func (r *repository) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	query := `SELECT id, word_id, language_id, district_id, tehsil_id, village_id,
		regional_text, audio_path, status, remote_id, created_at
		FROM submissions ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		err := rows.Scan(&sub.ID, &sub.WordID, &sub.LanguageID, &sub.DistrictID,
			&sub.TehsilID, &sub.VillageID, &sub.RegionalText, &sub.AudioPath,
			&sub.Status, &sub.RemoteID, &sub.CreatedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

func (r *repository) ClearSubmissions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions`)
	return err
}

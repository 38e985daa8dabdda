package store

import (
	"context"
	"database/sql"
	"time"
)

const mediaFileColumns = `id, filename, original_name, file_path, file_type, mime_type, file_size, uploaded_by, created_at`

func scanMediaFile(row rowScanner) (MediaFile, error) {
	var m MediaFile
	err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.FilePath, &m.FileType, &m.MimeType,
		&m.FileSize, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

type CreateMediaFileParams struct {
	Filename     string
	OriginalName string
	FilePath     string
	FileType     string
	MimeType     string
	FileSize     int64
	UploadedBy   sql.NullInt64
	CreatedAt    time.Time
}

func (q *Queries) CreateMediaFile(ctx context.Context, arg CreateMediaFileParams) (MediaFile, error) {
	id, err := q.insertID(ctx, `INSERT INTO media_files
		(filename, original_name, file_path, file_type, mime_type, file_size, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Filename, arg.OriginalName, arg.FilePath, arg.FileType, arg.MimeType, arg.FileSize,
		arg.UploadedBy, dbTime(arg.CreatedAt))
	if err != nil {
		return MediaFile{}, err
	}
	return scanMediaFile(q.db.QueryRowContext(ctx,
		`SELECT `+mediaFileColumns+` FROM media_files WHERE id = ?`, id))
}

// ListMediaFilesByType returns the recorded uploads of one kind, newest first.
func (q *Queries) ListMediaFilesByType(ctx context.Context, fileType string) ([]MediaFile, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+mediaFileColumns+` FROM media_files WHERE file_type = ? ORDER BY created_at DESC, id DESC`, fileType)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMediaFile)
}

func (q *Queries) DeleteMediaFileByName(ctx context.Context, fileType, filename string) (int64, error) {
	return q.execAffected(ctx,
		`DELETE FROM media_files WHERE file_type = ? AND filename = ?`, fileType, filename)
}

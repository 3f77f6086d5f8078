package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"video_feed/internal/domain"
)

// VideoStore keeps the latest known metadata of every video that appeared in a feed.
type VideoStore struct {
	db *sqlx.DB
}

func NewVideoStore(db *sqlx.DB) *VideoStore {
	return &VideoStore{db: db}
}

func (s *VideoStore) UpsertBatch(ctx context.Context, videos []domain.Video) error {
	if len(videos) == 0 {
		return nil
	}

	const cols = 4
	var sb strings.Builder
	sb.WriteString("INSERT INTO videos (id, title, published_at, duration_seconds) VALUES ")
	args := make([]any, 0, len(videos)*cols)

	for i, v := range videos {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*cols + c + 1))
		}
		sb.WriteString(")")
		args = append(args, string(v.ID), v.Title, v.PublishedAt, v.Duration)
	}
	sb.WriteString(`
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			published_at = EXCLUDED.published_at,
			duration_seconds = EXCLUDED.duration_seconds,
			updated_at = NOW()`)

	_, err := executor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	return err
}

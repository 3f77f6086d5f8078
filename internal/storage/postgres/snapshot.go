package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"video_feed/internal/domain"
)

// SnapshotStore archives every feed that was written. Nothing reads the
// archive back during a run.
type SnapshotStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
	videos    *VideoStore
	state     *ChannelStateStore
}

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{
		db:        db,
		txManager: NewTransactionManager(db),
		videos:    NewVideoStore(db),
		state:     NewChannelStateStore(db),
	}
}

// Save stores the feed and its videos in one transaction and returns the
// snapshot id. Position 0 is the featured video.
func (s *SnapshotStore) Save(ctx context.Context, channelID domain.ChannelID, feed *domain.Feed) (int64, error) {
	var id int64

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		videos := feed.Videos()

		if err := s.videos.UpsertBatch(txCtx, videos); err != nil {
			return fmt.Errorf("upsert videos: %w", err)
		}

		var featuredID *string
		if feed.Featured != nil {
			v := string(feed.Featured.ID)
			featuredID = &v
		}

		err := executor(txCtx, s.db).QueryRowxContext(txCtx, `
			INSERT INTO feed_snapshots (channel_id, updated_at, featured_id, history_count)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			channelID, feed.Updated, featuredID, len(feed.History),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		if err := s.linkVideos(txCtx, id, videos); err != nil {
			return fmt.Errorf("link videos: %w", err)
		}

		state, err := s.state.Get(txCtx, channelID)
		if err != nil {
			return fmt.Errorf("get channel state: %w", err)
		}
		state.LastSnapshotID = id
		state.LastWrittenAt = feed.Updated
		state.TotalSnapshots++

		if err := s.state.Update(txCtx, state); err != nil {
			return fmt.Errorf("update channel state: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *SnapshotStore) linkVideos(ctx context.Context, snapshotID int64, videos []domain.Video) error {
	if len(videos) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO feed_snapshot_videos (snapshot_id, position, video_id, date_label) VALUES ")
	args := make([]any, 0, len(videos)*3+1)
	args = append(args, snapshotID)

	for i, v := range videos {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i*3 + 2
		sb.WriteString("($1, $")
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(n + 1))
		sb.WriteString(", $")
		sb.WriteString(strconv.Itoa(n + 2))
		sb.WriteString(")")
		args = append(args, i, string(v.ID), v.Date)
	}

	_, err := executor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	return err
}

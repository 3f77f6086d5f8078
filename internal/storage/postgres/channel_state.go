package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"video_feed/internal/domain"
)

type ChannelStateStore struct {
	db *sqlx.DB
}

func NewChannelStateStore(db *sqlx.DB) *ChannelStateStore {
	return &ChannelStateStore{db: db}
}

func (s *ChannelStateStore) Get(ctx context.Context, channelID domain.ChannelID) (*domain.ChannelState, error) {
	var state domain.ChannelState
	query := `
		SELECT channel_id, last_snapshot_id, last_written_at, total_snapshots
		FROM channel_state
		WHERE channel_id = $1`

	err := sqlx.GetContext(ctx, executor(ctx, s.db), &state, query, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for new channels
		return &domain.ChannelState{ChannelID: channelID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *ChannelStateStore) Update(ctx context.Context, state *domain.ChannelState) error {
	query := `
		INSERT INTO channel_state (channel_id, last_snapshot_id, last_written_at, total_snapshots)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (channel_id) DO UPDATE SET
			last_snapshot_id = EXCLUDED.last_snapshot_id,
			last_written_at = EXCLUDED.last_written_at,
			total_snapshots = EXCLUDED.total_snapshots`

	_, err := executor(ctx, s.db).ExecContext(ctx, query,
		state.ChannelID,
		state.LastSnapshotID,
		state.LastWrittenAt,
		state.TotalSnapshots,
	)
	return err
}

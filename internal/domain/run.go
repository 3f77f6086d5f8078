package domain

import "time"

// RunStats holds statistics about one feed generation run.
type RunStats struct {
	ChannelID  ChannelID
	Fetched    int
	Skipped    int
	Qualifying int
	Written    bool
	Archived   bool
	Published  bool
	Errors     int
	Duration   time.Duration
}

// ChannelState tracks the archive of written feeds for one channel.
type ChannelState struct {
	ChannelID      ChannelID `db:"channel_id"`
	LastSnapshotID int64     `db:"last_snapshot_id"`
	LastWrittenAt  time.Time `db:"last_written_at"`
	TotalSnapshots int64     `db:"total_snapshots"`
}

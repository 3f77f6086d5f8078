package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"video_feed/internal/domain"
)

type Source interface {
	Name() string
	UploadsPlaylistID(ctx context.Context, channelID domain.ChannelID) (domain.PlaylistID, error)
	PlaylistItems(ctx context.Context, playlistID domain.PlaylistID, limit int) ([]domain.Upload, error)
	Durations(ctx context.Context, ids []domain.VideoID) (domain.DurationIndex, error)
}

type FeedWriter interface {
	Path() string
	Write(feed *domain.Feed) error
}

type SnapshotStore interface {
	Save(ctx context.Context, channelID domain.ChannelID, feed *domain.Feed) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, channelID domain.ChannelID, path string, feed *domain.Feed) error
	Close() error
}

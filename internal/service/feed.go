package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goodsign/monday"

	"video_feed/internal/config"
	"video_feed/internal/domain"
)

type FeedService struct {
	source    Source
	writer    FeedWriter
	snapshots SnapshotStore
	publisher Publisher
	channelID domain.ChannelID
	config    config.FeedConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewFeedService wires the feed pipeline. snapshots and publisher are
// optional and may be nil.
func NewFeedService(
	source Source,
	writer FeedWriter,
	snapshots SnapshotStore,
	publisher Publisher,
	channelID domain.ChannelID,
	logger *slog.Logger,
	cfg config.FeedConfig,
) *FeedService {
	return &FeedService{
		source:    source,
		writer:    writer,
		snapshots: snapshots,
		publisher: publisher,
		channelID: channelID,
		config:    cfg,
		logger:    logger.With("channel_id", channelID),
		now:       time.Now,
	}
}

// Run generates the feed once. A channel without qualifying videos is not an
// error: the returned stats report Written == false unless the service is
// configured to write empty feeds.
func (s *FeedService) Run(ctx context.Context) (*domain.RunStats, error) {
	startTime := time.Now()
	s.logger.Info("starting feed generation",
		"source_name", s.source.Name(),
		"history_length", s.config.HistoryLength,
		"short_threshold_seconds", s.config.ShortThresholdSeconds,
	)

	playlistID, err := s.source.UploadsPlaylistID(ctx, s.channelID)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads playlist: %w", err)
	}

	uploads, err := s.source.PlaylistItems(ctx, playlistID, s.config.FetchLimit())
	if err != nil {
		return nil, fmt.Errorf("fetch playlist items: %w", err)
	}

	s.logger.Info("fetched uploads", "playlist_id", playlistID, "count", len(uploads))

	ids := make([]domain.VideoID, len(uploads))
	for i, u := range uploads {
		ids[i] = u.ID
	}

	durations, err := s.source.Durations(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch durations: %w", err)
	}

	feed, skipped := Select(uploads, durations, SelectOptions{
		ShortThresholdSeconds: s.config.ShortThresholdSeconds,
		HistoryLength:         s.config.HistoryLength,
		Locale:                monday.Locale(s.config.Locale),
	})

	for _, u := range skipped {
		s.logger.Info("skipping short-form video",
			"video_id", u.ID,
			"title", u.Title,
			"duration", durations.Seconds(u.ID),
		)
	}

	stats := &domain.RunStats{
		ChannelID:  s.channelID,
		Fetched:    len(uploads),
		Skipped:    len(skipped),
		Qualifying: len(feed.Videos()),
	}

	if feed.Empty() {
		s.logger.Warn("no qualifying videos found",
			"fetched", stats.Fetched,
			"write_empty", s.config.WriteEmpty,
		)
		if !s.config.WriteEmpty {
			stats.Duration = time.Since(startTime)
			return stats, nil
		}
	}

	feed.Updated = s.now().UTC()

	if err := s.writer.Write(&feed); err != nil {
		return nil, fmt.Errorf("write feed: %w", err)
	}
	stats.Written = true

	if s.snapshots != nil {
		if id, err := s.snapshots.Save(ctx, s.channelID, &feed); err != nil {
			s.logger.Error("failed to archive feed", "error", err)
			stats.Errors++
		} else {
			s.logger.Debug("archived feed", "snapshot_id", id)
			stats.Archived = true
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.channelID, s.writer.Path(), &feed); err != nil {
			s.logger.Error("failed to publish feed update", "error", err)
			stats.Errors++
		} else {
			stats.Published = true
		}
	}

	stats.Duration = time.Since(startTime)

	s.logSummary(&feed, stats)

	return stats, nil
}

func (s *FeedService) logSummary(feed *domain.Feed, stats *domain.RunStats) {
	featured := "none"
	if feed.Featured != nil {
		featured = feed.Featured.Title
	}

	history := make([]string, len(feed.History))
	for i, v := range feed.History {
		history[i] = v.Title
	}

	s.logger.Info("feed generated",
		"path", s.writer.Path(),
		"featured", featured,
		"history", history,
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
}

package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"video_feed/internal/domain"
)

const SourceName = "YouTube Data API v3"

var ErrChannelNotFound = errors.New("youtube: channel not found")

// RequestError wraps a failed API call with the operation that issued it.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return "youtube: " + e.Op + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error { return e.Err }

// Config holds YouTube source configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Source reads a channel's uploads from the YouTube Data API.
type Source struct {
	service *youtube.Service
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new YouTube source. BaseURL overrides the API endpoint and is
// empty in production.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Source, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Source{
		service: service,
		timeout: cfg.Timeout,
		logger:  logger.With("source", "youtube"),
	}, nil
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// UploadsPlaylistID looks up the playlist holding every upload of a channel.
func (s *Source) UploadsPlaylistID(ctx context.Context, channelID domain.ChannelID) (domain.PlaylistID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.service.Channels.
		List([]string{"contentDetails"}).
		Id(string(channelID)).
		Context(ctx).
		Do()
	if err != nil {
		return "", &RequestError{Op: "channels.list", Err: err}
	}

	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("%w: %s has no uploads playlist", ErrChannelNotFound, channelID)
	}

	return domain.PlaylistID(details.RelatedPlaylists.Uploads), nil
}

// PlaylistItems returns up to limit items of a playlist, newest first.
// Only the first page is read.
func (s *Source) PlaylistItems(ctx context.Context, playlistID domain.PlaylistID, limit int) ([]domain.Upload, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.service.PlaylistItems.
		List([]string{"snippet"}).
		PlaylistId(string(playlistID)).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &RequestError{Op: "playlistItems.list", Err: err}
	}

	uploads := make([]domain.Upload, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippet := item.Snippet
		if snippet == nil || snippet.ResourceId == nil || snippet.ResourceId.VideoId == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt)
		if err != nil {
			s.logger.Warn("failed to parse publish date",
				"video_id", snippet.ResourceId.VideoId,
				"date", snippet.PublishedAt,
			)
			continue
		}

		uploads = append(uploads, domain.Upload{
			ID:          domain.VideoID(snippet.ResourceId.VideoId),
			Title:       snippet.Title,
			PublishedAt: publishedAt,
		})
	}

	s.logger.Debug("fetched playlist items",
		"playlist_id", playlistID,
		"requested", limit,
		"received", len(uploads),
	)

	return uploads, nil
}

// Durations fetches the length of every given video in a single request.
// Videos the API does not return are absent from the index.
func (s *Source) Durations(ctx context.Context, ids []domain.VideoID) (domain.DurationIndex, error) {
	index := make(domain.DurationIndex, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = string(id)
	}

	resp, err := s.service.Videos.
		List([]string{"contentDetails"}).
		Id(strings.Join(strIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &RequestError{Op: "videos.list", Err: err}
	}

	for _, item := range resp.Items {
		if item.ContentDetails == nil {
			continue
		}
		index[domain.VideoID(item.Id)] = ParseDuration(item.ContentDetails.Duration)
	}

	return index, nil
}

func (s *Source) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

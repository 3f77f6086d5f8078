package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_feed/internal/config"
	"video_feed/internal/output"
	"video_feed/internal/source/youtube"
)

func newFakeYouTube(t *testing.T, videos string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"id":"UC1","contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`)
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[
			{"snippet":{"title":"A short","publishedAt":"2024-03-08T10:00:00Z","resourceId":{"videoId":"A"}}},
			{"snippet":{"title":"B long","publishedAt":"2024-03-07T10:00:00Z","resourceId":{"videoId":"B"}}},
			{"snippet":{"title":"C long","publishedAt":"2024-03-06T10:00:00Z","resourceId":{"videoId":"C"}}},
			{"snippet":{"title":"D short","publishedAt":"2024-03-05T10:00:00Z","resourceId":{"videoId":"D"}}}
		]}`)
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, videos)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runEndToEnd(t *testing.T, videos string, writeEmpty bool, path string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newFakeYouTube(t, videos)

	src, err := youtube.New(context.Background(), youtube.Config{
		APIKey:  "key",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)

	svc := NewFeedService(src, output.NewFileWriter(path), nil, nil, "UC1", logger, config.FeedConfig{
		HistoryLength:         1,
		ShortThresholdSeconds: 60,
		FetchMultiplier:       5,
		Locale:                "es_ES",
		WriteEmpty:            writeEmpty,
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 6, 30, 0, 0, time.UTC) }

	_, err = svc.Run(context.Background())
	require.NoError(t, err)
}

func TestFeedService_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "videos.json")

	runEndToEnd(t, `{"items":[
		{"id":"A","contentDetails":{"duration":"PT30S"}},
		{"id":"B","contentDetails":{"duration":"PT1M30S"}},
		{"id":"C","contentDetails":{"duration":"PT2M"}},
		{"id":"D","contentDetails":{"duration":"PT45S"}}
	]}`, false, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"updated": "2024-03-09T06:30:00Z",
		"featured": {
			"id": "B", "title": "B long", "date": "7 de marzo de 2024", "duration": 90,
			"thumbnail": "https://img.youtube.com/vi/B/hqdefault.jpg",
			"url": "https://www.youtube.com/watch?v=B"
		},
		"history": [{
			"id": "C", "title": "C long", "date": "6 de marzo de 2024", "duration": 120,
			"thumbnail": "https://img.youtube.com/vi/C/hqdefault.jpg",
			"url": "https://www.youtube.com/watch?v=C"
		}]
	}`, string(data))
}

func TestFeedService_EndToEnd_AllShortKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"previous":true}`), 0o644))

	runEndToEnd(t, `{"items":[{"id":"A","contentDetails":{"duration":"PT30S"}}]}`, false, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"previous":true}`, string(data))
}

func TestFeedService_EndToEnd_AllShortWritesEmptyWhenConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"previous":true}`), 0o644))

	runEndToEnd(t, `{"items":[]}`, true, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Nil(t, doc["featured"])
	assert.Equal(t, []any{}, doc["history"])
	assert.Equal(t, "2024-03-09T06:30:00Z", doc["updated"])
}

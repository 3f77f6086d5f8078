package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_feed/internal/domain"
)

func TestNewFeedMessage(t *testing.T) {
	updated := time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)
	feed := &domain.Feed{
		Updated:  updated,
		Featured: &domain.Video{ID: "B"},
		History:  []domain.Video{{ID: "C"}},
	}

	msg := NewFeedMessage("UC1", "docs/videos.json", feed)

	assert.Equal(t, ActionFeedUpdated, msg.Action)
	assert.Equal(t, domain.ChannelID("UC1"), msg.ChannelID)
	assert.Equal(t, domain.VideoID("B"), msg.FeaturedID)
	assert.Equal(t, []domain.VideoID{"C"}, msg.HistoryIDs)
	assert.Equal(t, updated, msg.Updated)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewFeedMessage_Empty(t *testing.T) {
	msg := NewFeedMessage("UC1", "docs/videos.json", &domain.Feed{})

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.NotContains(t, raw, "featured_id")
	assert.Equal(t, []any{}, raw["history_ids"])
}

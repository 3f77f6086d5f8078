package domain

import "time"

type ChannelID string

type PlaylistID string

type VideoID string

// Upload is one entry of a channel's uploads playlist, newest first.
type Upload struct {
	ID          VideoID
	Title       string
	PublishedAt time.Time
}

// DurationIndex maps a video to its length in seconds.
type DurationIndex map[VideoID]int

// Seconds returns the known duration of id, or 0 when the index has no entry.
func (d DurationIndex) Seconds(id VideoID) int {
	return d[id]
}

type Video struct {
	ID          VideoID   `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Duration    int       `json:"duration"`
	Thumbnail   string    `json:"thumbnail"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"-"`
}

func ThumbnailURL(id VideoID) string {
	return "https://img.youtube.com/vi/" + string(id) + "/hqdefault.jpg"
}

func WatchURL(id VideoID) string {
	return "https://www.youtube.com/watch?v=" + string(id)
}

// Feed is the document consumed by the website: the newest qualifying
// video plus the ones right after it.
type Feed struct {
	Updated  time.Time
	Featured *Video
	History  []Video
}

// Empty reports whether no video qualified for the feed.
func (f *Feed) Empty() bool {
	return f.Featured == nil
}

// Videos returns featured followed by history.
func (f *Feed) Videos() []Video {
	if f.Featured == nil {
		return nil
	}
	videos := make([]Video, 0, len(f.History)+1)
	videos = append(videos, *f.Featured)
	return append(videos, f.History...)
}

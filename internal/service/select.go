package service

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"

	"video_feed/internal/domain"
)

const dateLayout = "2 de January de 2006"

type SelectOptions struct {
	ShortThresholdSeconds int
	HistoryLength         int
	Locale                monday.Locale
}

// Select walks uploads newest first, drops every video no longer than the
// short-form threshold and keeps at most HistoryLength+1 of the rest. The
// first kept video is featured, the others form the history. Repeated IDs
// after the first occurrence are ignored. The skipped uploads are returned in
// the order they were seen.
func Select(uploads []domain.Upload, durations domain.DurationIndex, opts SelectOptions) (domain.Feed, []domain.Upload) {
	want := opts.HistoryLength + 1
	kept := make([]domain.Video, 0, want)
	var skipped []domain.Upload
	seen := make(map[domain.VideoID]struct{}, len(uploads))

	for _, upload := range uploads {
		if _, ok := seen[upload.ID]; ok {
			continue
		}
		if len(kept) >= want {
			break
		}
		seen[upload.ID] = struct{}{}

		seconds := durations.Seconds(upload.ID)
		if seconds <= opts.ShortThresholdSeconds {
			skipped = append(skipped, upload)
			continue
		}

		kept = append(kept, domain.Video{
			ID:          upload.ID,
			Title:       upload.Title,
			Date:        FormatDate(upload.PublishedAt, opts.Locale),
			Duration:    seconds,
			Thumbnail:   domain.ThumbnailURL(upload.ID),
			URL:         domain.WatchURL(upload.ID),
			PublishedAt: upload.PublishedAt,
		})
	}

	feed := domain.Feed{History: []domain.Video{}}
	if len(kept) == 0 {
		return feed, skipped
	}

	featured := kept[0]
	feed.Featured = &featured
	feed.History = append(feed.History, kept[1:]...)

	return feed, skipped
}

// FormatDate renders t in UTC as "5 de marzo de 2024" for the given locale,
// with the first letter upper-cased.
func FormatDate(t time.Time, locale monday.Locale) string {
	return capitalize(monday.Format(t.UTC(), dateLayout, locale))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/go-redis/redis/v8"
)

const (
	feedCacheKey = "ical:feed"
	feedCacheTTL = 60 * time.Second
)

// FeedSource supplies the externally booked intervals. The availability and
// checkout handlers depend on this interface so tests can feed in fixtures.
type FeedSource interface {
	BookedIntervals(ctx context.Context) ([]BookedInterval, error)
}

// IcalFeed fetches and parses the syndicated calendar export (Booking.com's
// iCal URL for the studio). A fetch or parse failure yields an empty interval
// set and an error; callers fall back to local-store availability alone.
type IcalFeed struct {
	URL    string
	Client *http.Client
	Cache  *redis.Client // optional, only used by FetchCached
}

func NewIcalFeed(url string, cache *redis.Client) *IcalFeed {
	return &IcalFeed{
		URL:    url,
		Client: &http.Client{},
		Cache:  cache,
	}
}

// Fetch retrieves the raw feed body, always hitting the upstream.
func (f *IcalFeed) Fetch(ctx context.Context) ([]byte, error) {
	if f.URL == "" {
		return nil, errors.New("feed URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch returned %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// FetchCached serves the feed body through the short-lived Redis cache used
// by the public proxy endpoint (the old deployment fronted this with a
// 60-second CDN cache). Without Redis it behaves exactly like Fetch.
func (f *IcalFeed) FetchCached(ctx context.Context) ([]byte, error) {
	if f.Cache != nil {
		if body, err := f.Cache.Get(ctx, feedCacheKey).Bytes(); err == nil && len(body) > 0 {
			return body, nil
		}
	}

	body, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if f.Cache != nil {
		if err := f.Cache.Set(ctx, feedCacheKey, body, feedCacheTTL).Err(); err != nil {
			log.Printf("feed cache write failed: %v", err)
		}
	}
	return body, nil
}

// BookedIntervals fetches the feed fresh and extracts its booked ranges.
// Availability checks always take this path; only the passthrough proxy uses
// the cache.
func (f *IcalFeed) BookedIntervals(ctx context.Context) ([]BookedInterval, error) {
	body, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseFeedIntervals(body)
}

// ParseFeedIntervals extracts one BookedInterval per VEVENT in the feed.
// Events missing a DTSTART or DTEND stamp are skipped, never fatal. A
// same-day event (DTEND == DTSTART, which Booking.com emits for single-night
// blocks) is coerced to a one-day interval instead of a degenerate one.
func ParseFeedIntervals(body []byte) ([]BookedInterval, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}

	intervals := make([]BookedInterval, 0)
	for _, ev := range cal.Events() {
		start, ok := eventDate(ev, ical.ComponentPropertyDtStart)
		if !ok {
			continue
		}
		end, ok := eventDate(ev, ical.ComponentPropertyDtEnd)
		if !ok {
			continue
		}
		if !start.Before(end) {
			end = start.AddDate(0, 0, 1)
		}
		intervals = append(intervals, BookedInterval{Start: start, End: end, Origin: OriginSyndicatedFeed})
	}
	return intervals, nil
}

// eventDate reads the 8-digit YYYYMMDD stamp from a DTSTART/DTEND property.
// The stamp is parsed in the local timezone; the library's own helpers treat
// date-only values as UTC, which shifts the calendar day east of Greenwich.
func eventDate(ev *ical.VEvent, prop ical.ComponentProperty) (time.Time, bool) {
	p := ev.GetProperty(prop)
	if p == nil || len(p.Value) < 8 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("20060102", p.Value[:8], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

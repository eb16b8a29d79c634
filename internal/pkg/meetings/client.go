// Package meetings reads upcoming meetings from the external calendar feed.
package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/htmltext"
)

const (
	DefaultTimeout = 10 * time.Second
	perPage        = 50
	maxBodyBytes   = 4 << 20
)

// ErrMalformed is returned when the feed body lacks the events list.
var ErrMalformed = errors.New("meetings feed: malformed payload")

// Venue is where a meeting takes place.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// Meeting is the reduced shape served to visitors.
type Meeting struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Venue       *Venue `json:"venue,omitempty"`
}

type Client struct {
	FeedURL    string
	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return NewClient(
		strings.TrimSpace(env.GetEnv("MEETINGS_FEED_URL", "")),
		env.GetEnvDuration("MEETINGS_TIMEOUT", DefaultTimeout),
	)
}

func NewClient(feedURL string, timeout time.Duration) *Client {
	return &Client{
		FeedURL: feedURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch queries the feed for search. Unlike the service wrapper it reports
// failures, so callers can decide whether to cache the result.
func (c *Client) Fetch(ctx context.Context, search string) ([]Meeting, error) {
	if c.FeedURL == "" {
		return nil, errors.New("MEETINGS_FEED_URL is not configured")
	}

	u, err := url.Parse(c.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MEETINGS_FEED_URL: %w", err)
	}
	q := u.Query()
	q.Set("search", search)
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("page", "1")
	q.Set("order", "asc")
	q.Set("orderby", "start_date")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("meetings feed request failed: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading meetings feed: %w", err)
	}

	return decode(body)
}

type rawEvent struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Venue       json.RawMessage `json:"venue"`
}

type rawVenue struct {
	Venue   string `json:"venue"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func decode(body []byte) ([]Meeting, error) {
	var payload struct {
		Events *[]rawEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if payload.Events == nil {
		return nil, ErrMalformed
	}

	out := make([]Meeting, 0, len(*payload.Events))
	for _, e := range *payload.Events {
		out = append(out, Meeting{
			ID:          e.ID,
			Title:       html.UnescapeString(strings.TrimSpace(e.Title)),
			Description: htmltext.Strip(e.Description),
			URL:         e.URL,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Venue:       decodeVenue(e.Venue),
		})
	}
	return out, nil
}

// decodeVenue accepts an object; the feed sends an empty array when there is no venue.
func decodeVenue(raw json.RawMessage) *Venue {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var v rawVenue
	if err := json.Unmarshal(raw, &v); err != nil || strings.TrimSpace(v.Venue) == "" {
		return nil
	}
	return &Venue{
		Name:    html.UnescapeString(strings.TrimSpace(v.Venue)),
		Address: strings.TrimSpace(v.Address),
		City:    strings.TrimSpace(v.City),
	}
}

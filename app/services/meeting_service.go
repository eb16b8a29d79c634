package services

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/meetings"
)

// MeetingService proxies the external meetings feed through the cache.
// Upstream failures degrade to an empty list and are not cached.
type MeetingService struct {
	client *meetings.Client
	cache  *content.Cache
}

// Enabled reports whether a feed URL is configured.
func (s *MeetingService) Enabled() bool {
	return s.client != nil
}

func (s *MeetingService) Fetch(ctx context.Context, search string) []meetings.Meeting {
	q := meetingQuery(search)
	result, err := content.Remember(ctx, s.cache, content.ListKey(content.EntityMeeting, q), func(ctx context.Context) ([]meetings.Meeting, error) {
		if s.client == nil {
			return nil, errMeetingsDisabled
		}
		return s.client.Fetch(ctx, q.Search)
	})
	if err != nil {
		log.Warnf("[MeetingService] feed unavailable for %q: %v", q.Search, err)
		return []meetings.Meeting{}
	}
	if result == nil {
		result = []meetings.Meeting{}
	}
	return result
}

// Warm refreshes the unfiltered listing so visitors rarely wait on the feed.
func (s *MeetingService) Warm(ctx context.Context) int {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity: content.EntityMeeting,
		Extra:  []string{content.ListKey(content.EntityMeeting, meetingQuery(""))},
	})
	return len(s.Fetch(ctx, ""))
}

func meetingQuery(search string) content.ListQuery {
	return content.ListQuery{Search: strings.TrimSpace(search)}.Normalize(MeetingsPerPage)
}

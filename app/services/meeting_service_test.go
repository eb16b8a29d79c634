package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/cache"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/meetings"
)

const oneMeeting = `{"events":[{"id":7,"title":"Sunday Serenity","description":"<p>Open</p>",` +
	`"start_date":"2026-10-25 10:00:00","end_date":"2026-10-25 11:00:00","venue":[]}]}`

func meetingService(t *testing.T, h http.HandlerFunc, timeout time.Duration) *MeetingService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &MeetingService{
		client: meetings.NewClient(srv.URL, timeout),
		cache:  content.NewCache(cache.NewMemoryStore(), time.Hour, 3),
	}
}

func TestMeetingsUpstreamErrorDegradesToEmpty(t *testing.T) {
	var hits atomic.Int32
	var healthy atomic.Bool
	svc := meetingService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(oneMeeting))
	}, time.Second)
	ctx := context.Background()

	got := svc.Fetch(ctx, "serenity")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	healthy.Store(true)
	got = svc.Fetch(ctx, "  Serenity ")
	require.Len(t, got, 1)
	assert.Equal(t, "Sunday Serenity", got[0].Title)
	assert.Equal(t, "Open", got[0].Description)

	svc.Fetch(ctx, "serenity")
	assert.Equal(t, int32(2), hits.Load())
}

func TestMeetingsUpstreamTimeoutDegradesToEmpty(t *testing.T) {
	release := make(chan struct{})
	svc := meetingService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	assert.Empty(t, svc.Fetch(context.Background(), ""))
}

func TestMeetingsWithoutClient(t *testing.T) {
	svc := &MeetingService{cache: content.NewCache(cache.NewMemoryStore(), time.Hour, 3)}

	assert.Empty(t, svc.Fetch(context.Background(), ""))
	assert.Equal(t, 0, svc.Warm(context.Background()))
}

func TestMeetingsWarmRefetches(t *testing.T) {
	var hits atomic.Int32
	svc := meetingService(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(oneMeeting))
	}, time.Second)
	ctx := context.Background()

	assert.Len(t, svc.Fetch(ctx, ""), 1)
	assert.Equal(t, 1, svc.Warm(ctx))
	assert.Len(t, svc.Fetch(ctx, ""), 1)
	assert.Equal(t, int32(2), hits.Load())
}

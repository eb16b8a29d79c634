// Package content implements the cache-backed read path shared by every
// content type: canonical list queries, page objects, read-through caching and
// bounded invalidation after writes.
package content

import (
	"strconv"
	"strings"
)

// Entity names a content type; it is the first segment of its cache keys.
type Entity string

const (
	EntityStory      Entity = "story"
	EntityEvent      Entity = "event"
	EntityFAQ        Entity = "faq"
	EntityDocument   Entity = "document"
	EntityRoster     Entity = "roster"
	EntityContact    Entity = "contact"
	EntitySubmission Entity = "submission"
	EntitySetting    Entity = "setting"
	EntityUser       Entity = "user"
	EntityMeeting    Entity = "meeting"
)

// List scopes. Public lists apply visibility predicates, admin lists do not.
const (
	ScopePublic = "public"
	ScopeAdmin  = "admin"
)

// Filter names the optional list filters an entity understands.
type Filter uint8

const (
	FilterSearch Filter = 1 << iota
	FilterCategory
	FilterStatus
)

// ListQuery is the filter set of a paginated listing.
type ListQuery struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Status   string
	Scope    string
}

// Only clears the filters an entity does not support, so that a request
// carrying an ignored parameter shares the key of the plain listing.
func (q ListQuery) Only(supported Filter) ListQuery {
	if supported&FilterSearch == 0 {
		q.Search = ""
	}
	if supported&FilterCategory == 0 {
		q.Category = ""
	}
	if supported&FilterStatus == 0 {
		q.Status = ""
	}
	return q
}

// Normalize trims and case-folds the filters and fixes paging so that
// equivalent requests produce identical queries (and identical cache keys).
// A missing search term and an empty one are the same thing. Every entity
// lists with one page size: the one invalidation enumerates.
func (q ListQuery) Normalize(perPage int) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PerPage = perPage
	q.Search = strings.ToLower(strings.Join(strings.Fields(q.Search), " "))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	q.Scope = strings.TrimSpace(q.Scope)
	if q.Scope == "" {
		q.Scope = ScopePublic
	}
	return q
}

// Offset is the row offset of the first item on the page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// Params is the canonical parameter object fed to the cache key builder.
func (q ListQuery) Params() map[string]string {
	return map[string]string{
		"page":     strconv.Itoa(q.Page),
		"per_page": strconv.Itoa(q.PerPage),
		"search":   q.Search,
		"category": q.Category,
		"status":   q.Status,
		"scope":    q.Scope,
	}
}

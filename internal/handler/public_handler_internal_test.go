package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/complai/internal/directus"
	"github.com/complai/internal/model"
	"github.com/complai/internal/service"
)

// rendezvousReader holds every read until two are in flight at once.
type rendezvousReader struct {
	mu       sync.Mutex
	pending  int
	timeouts int
	both     chan struct{}
}

func (r *rendezvousReader) ReadItems(ctx context.Context, collection string, q directus.Query, dst any) error {
	r.mu.Lock()
	r.pending++
	if r.pending == 2 {
		close(r.both)
	}
	r.mu.Unlock()

	select {
	case <-r.both:
	case <-time.After(2 * time.Second):
		r.mu.Lock()
		r.timeouts++
		r.mu.Unlock()
		return context.DeadlineExceeded
	}

	payload := `[]`
	if collection == "pages" {
		payload = `[{"id":1,"title":"About","slug":"about","status":"published"}]`
	}
	return json.Unmarshal([]byte(payload), dst)
}

func TestLoadWithNavRunsQueriesConcurrently(t *testing.T) {
	reader := &rendezvousReader{both: make(chan struct{})}
	api := NewAPI(service.NewContentService(reader, nil), nil, Site{}, nil)

	var posts []model.Post
	nav := api.loadWithNav(context.Background(), func(ctx context.Context) {
		posts = api.content.ListPublishedPosts(ctx)
	})

	if reader.timeouts != 0 {
		t.Fatalf("expected both queries in flight together, %d waited alone", reader.timeouts)
	}
	if len(nav) != 1 || nav[0].Slug != "about" {
		t.Fatalf("expected navigation page, got %+v", nav)
	}
	if posts == nil {
		t.Fatalf("expected empty post slice, got nil")
	}
}

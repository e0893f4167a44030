package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/complai/internal/directus"
	"github.com/complai/internal/logging"
	"github.com/complai/internal/model"
	"go.uber.org/zap"
)

const (
	collectionPosts = "posts"
	collectionPages = "pages"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrSlugRequired    = errors.New("slug is required")
)

// ItemReader is the part of the CMS client the content service needs.
type ItemReader interface {
	ReadItems(ctx context.Context, collection string, q directus.Query, dst any) error
}

// ContentService exposes the published posts and pages of the CMS.
//
// The Fetch* methods return classified errors. The List*/Get* methods keep
// the page-rendering contract: failures are logged and become an empty
// slice or nil, so callers cannot tell "nothing published" from "CMS down".
type ContentService struct {
	cms    ItemReader
	logger *zap.Logger
}

// NewContentService creates a ContentService instance.
func NewContentService(cms ItemReader, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{cms: cms, logger: logger}
}

type publishable interface {
	model.Post | model.Page
	IsPublished() bool
	MatchesSlug(slug string) bool
}

func publishedFilter() directus.Filter {
	return directus.Filter{}.Eq("status", model.StatusPublished)
}

// FetchPublishedPosts returns published posts, newest first.
func (s *ContentService) FetchPublishedPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := fetchAll[model.Post](ctx, s.cms, collectionPosts, directus.Query{
		Filter: publishedFilter(),
		Sort:   []string{"-date_created"},
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.DateCreated.Compare(a.DateCreated.Time)
	})
	return posts, nil
}

// FetchPostBySlug returns the published post with slug or ErrContentNotFound.
func (s *ContentService) FetchPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return fetchBySlug[model.Post](ctx, s.cms, collectionPosts, slug)
}

// FetchPublishedPages returns published pages in CMS order.
func (s *ContentService) FetchPublishedPages(ctx context.Context) ([]model.Page, error) {
	return fetchAll[model.Page](ctx, s.cms, collectionPages, directus.Query{Filter: publishedFilter()})
}

// FetchPageBySlug returns the published page with slug or ErrContentNotFound.
func (s *ContentService) FetchPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return fetchBySlug[model.Page](ctx, s.cms, collectionPages, slug)
}

// ListPublishedPosts returns published posts, newest first, or an empty
// slice when the CMS cannot be read.
func (s *ContentService) ListPublishedPosts(ctx context.Context) []model.Post {
	posts, err := s.FetchPublishedPosts(ctx)
	if err != nil {
		s.logFailure(ctx, "list published posts", collectionPosts, "", err)
		return []model.Post{}
	}
	return posts
}

// GetPostBySlug returns the published post with slug, or nil.
func (s *ContentService) GetPostBySlug(ctx context.Context, slug string) *model.Post {
	post, err := s.FetchPostBySlug(ctx, slug)
	if err != nil {
		s.logFailure(ctx, "get post by slug", collectionPosts, slug, err)
		return nil
	}
	return post
}

// ListPublishedPages returns published pages or an empty slice.
func (s *ContentService) ListPublishedPages(ctx context.Context) []model.Page {
	pages, err := s.FetchPublishedPages(ctx)
	if err != nil {
		s.logFailure(ctx, "list published pages", collectionPages, "", err)
		return []model.Page{}
	}
	return pages
}

// GetPageBySlug returns the published page with slug, or nil.
func (s *ContentService) GetPageBySlug(ctx context.Context, slug string) *model.Page {
	page, err := s.FetchPageBySlug(ctx, slug)
	if err != nil {
		s.logFailure(ctx, "get page by slug", collectionPages, slug, err)
		return nil
	}
	return page
}

func (s *ContentService) logFailure(ctx context.Context, op, collection, slug string, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("collection", collection),
		logging.RequestField(ctx),
	}
	if slug != "" {
		fields = append(fields, zap.String("slug", slug))
	}

	if errors.Is(err, ErrContentNotFound) || errors.Is(err, ErrSlugRequired) {
		s.logger.Debug("content not available", append(fields, zap.Error(err))...)
		return
	}

	fields = append(fields, zap.String("kind", directus.Kind(err)), zap.Error(err))
	s.logger.Error("cms fetch failed", fields...)
}

func fetchAll[T publishable](ctx context.Context, cms ItemReader, collection string, q directus.Query) ([]T, error) {
	var items []T
	if err := cms.ReadItems(ctx, collection, q, &items); err != nil {
		return nil, err
	}
	return keepPublished(items), nil
}

func fetchBySlug[T publishable](ctx context.Context, cms ItemReader, collection, slug string) (*T, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}

	items, err := fetchAll[T](ctx, cms, collection, directus.Query{
		Filter: publishedFilter().Eq("slug", slug),
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].MatchesSlug(slug) {
			return &items[i], nil
		}
	}
	return nil, ErrContentNotFound
}

// keepPublished always returns a non-nil slice holding only published items.
func keepPublished[T publishable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.IsPublished() {
			out = append(out, item)
		}
	}
	return out
}

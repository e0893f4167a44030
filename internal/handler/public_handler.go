package handler

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/complai/internal/locale"
	"github.com/complai/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const homePostCount = 3

type postView struct {
	ID        int
	Title     string
	Slug      string
	Excerpt   string
	Body      template.HTML
	Published string
	Updated   string
}

type pageView struct {
	ID    int
	Title string
	Slug  string
	Body  template.HTML
}

// loadWithNav runs one content query next to the navigation query.
// Both calls swallow CMS failures, so Wait has nothing to report.
func (a *API) loadWithNav(ctx context.Context, load func(ctx context.Context)) []model.Page {
	var nav []model.Page
	var g errgroup.Group
	g.Go(func() error {
		load(ctx)
		return nil
	})
	g.Go(func() error {
		nav = a.content.ListPublishedPages(ctx)
		return nil
	})
	g.Wait()
	return nav
}

// ShowHome renders the landing page with the latest posts.
func (a *API) ShowHome(c *gin.Context) {
	var posts []model.Post
	nav := a.loadWithNav(c.Request.Context(), func(ctx context.Context) {
		posts = a.content.ListPublishedPosts(ctx)
	})
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}

	lang := a.requestLocale(c).Language
	a.renderHTML(c, http.StatusOK, "home.html", nav, gin.H{
		"posts": a.postViews(lang, posts, false),
	})
}

// ShowPostList renders every published post, newest first.
func (a *API) ShowPostList(c *gin.Context) {
	var posts []model.Post
	nav := a.loadWithNav(c.Request.Context(), func(ctx context.Context) {
		posts = a.content.ListPublishedPosts(ctx)
	})

	lang := a.requestLocale(c).Language
	a.renderHTML(c, http.StatusOK, "post_list.html", nav, gin.H{
		"title": text(lang, "posts"),
		"posts": a.postViews(lang, posts, false),
	})
}

// ShowPostDetail renders a single published post or the not found page.
func (a *API) ShowPostDetail(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var post *model.Post
	nav := a.loadWithNav(c.Request.Context(), func(ctx context.Context) {
		post = a.content.GetPostBySlug(ctx, slug)
	})
	if post == nil {
		a.renderNotFound(c, nav)
		return
	}

	lang := a.requestLocale(c).Language
	views := a.postViews(lang, []model.Post{*post}, true)
	a.renderHTML(c, http.StatusOK, "post_detail.html", nav, gin.H{
		"title": post.Title,
		"post":  views[0],
	})
}

// ShowPageList renders the index of published pages.
func (a *API) ShowPageList(c *gin.Context) {
	pages := a.content.ListPublishedPages(c.Request.Context())

	lang := a.requestLocale(c).Language
	views := make([]pageView, 0, len(pages))
	for _, page := range pages {
		views = append(views, pageView{ID: page.ID, Title: page.Title, Slug: page.Slug})
	}
	a.renderHTML(c, http.StatusOK, "page_list.html", pages, gin.H{
		"title": text(lang, "pages"),
		"pages": views,
	})
}

// ShowPageDetail renders a single published page or the not found page.
func (a *API) ShowPageDetail(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var page *model.Page
	nav := a.loadWithNav(c.Request.Context(), func(ctx context.Context) {
		page = a.content.GetPageBySlug(ctx, slug)
	})
	if page == nil {
		a.renderNotFound(c, nav)
		return
	}

	a.renderHTML(c, http.StatusOK, "page_detail.html", nav, gin.H{
		"title": page.Title,
		"page": pageView{
			ID:    page.ID,
			Title: page.Title,
			Slug:  page.Slug,
			Body:  a.renderContent(page.Content),
		},
	})
}

// ShowNotFound handles unmatched routes.
func (a *API) ShowNotFound(c *gin.Context) {
	a.renderNotFound(c, a.content.ListPublishedPages(c.Request.Context()))
}

func (a *API) renderNotFound(c *gin.Context, nav []model.Page) {
	lang := a.requestLocale(c).Language
	a.renderHTML(c, http.StatusNotFound, "not_found.html", nav, gin.H{
		"title": text(lang, "not_found"),
	})
}

func (a *API) postViews(lang string, posts []model.Post, withBody bool) []postView {
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		view := postView{
			ID:      post.ID,
			Title:   post.Title,
			Slug:    post.Slug,
			Excerpt: excerpt(post.Content),
		}
		if !post.DateCreated.IsZero() {
			view.Published = locale.FormatDate(lang, post.DateCreated.Time)
		}
		if !post.DateUpdated.IsZero() && !post.DateUpdated.Equal(post.DateCreated.Time) {
			view.Updated = locale.FormatDate(lang, post.DateUpdated.Time)
		}
		if withBody {
			view.Body = a.renderContent(post.Content)
		}
		views = append(views, view)
	}
	return views
}

func (a *API) renderContent(content string) template.HTML {
	rendered, err := renderMarkdown(content)
	if err != nil {
		a.logger.Warn("markdown render failed", zap.Error(err))
		return template.HTML(sanitizer.Sanitize(content))
	}
	return rendered
}

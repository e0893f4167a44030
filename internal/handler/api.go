package handler

import (
	"strings"
	"time"

	"github.com/complai/internal/model"
	"github.com/complai/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Site carries the static presentation settings of the frontend.
type Site struct {
	Name        string
	AppURL      string
	DirectusURL string
	Environment string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	content *service.ContentService
	health  *service.HealthService
	site    Site
	logger  *zap.Logger
	now     func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(content *service.ContentService, health *service.HealthService, site Site, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(site.Name) == "" {
		site.Name = "Complai"
	}
	return &API{
		content: content,
		health:  health,
		site:    site,
		logger:  logger,
		now:     time.Now,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, nav []model.Page, data gin.H) {
	pref := a.requestLocale(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":        a.site.Name,
			"appUrl":      a.site.AppURL,
			"environment": a.site.Environment,
		}
	}
	if _, exists := payload["nav"]; !exists {
		payload["nav"] = pageLinks(nav)
	}
	payload["lang"] = pref.Language
	payload["htmlLang"] = pref.HTMLLang
	payload["text"] = messagesFor(pref.Language)
	payload["langSwitch"] = buildLanguageSwitch(c)
	payload["path"] = c.Request.URL.Path
	payload["year"] = a.now().Year()

	if title, ok := payload["title"].(string); ok && title != "" {
		payload["documentTitle"] = title + " · " + a.site.Name
	} else {
		payload["documentTitle"] = a.site.Name
	}

	c.HTML(status, template, payload)
}

type pageLink struct {
	Title string
	Slug  string
}

func pageLinks(pages []model.Page) []pageLink {
	links := make([]pageLink, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Slug) == "" {
			continue
		}
		links = append(links, pageLink{Title: page.Title, Slug: page.Slug})
	}
	return links
}

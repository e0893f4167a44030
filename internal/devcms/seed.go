package devcms

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Seed 生成本地开发用的示例内容；已有数据时跳过。
func Seed(gdb *gorm.DB, now time.Time) error {
	var count int64
	if err := gdb.Model(&PostRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, post := range seedPosts(now.UTC()) {
			post := post
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("seed post %q: %w", post.Slug, err)
			}
		}
		for _, page := range seedPages() {
			page := page
			if err := tx.Create(&page).Error; err != nil {
				return fmt.Errorf("seed page %q: %w", page.Slug, err)
			}
		}
		return nil
	})
}

func seedPosts(now time.Time) []PostRecord {
	edited := now.Add(-2 * time.Hour)
	return []PostRecord{
		{
			Title:       "Welcome to Complai",
			Slug:        "welcome-to-complai",
			Status:      "published",
			DateCreated: now.Add(-72 * time.Hour),
			Content: `Complai pairs a **Directus** content backend with a server-rendered frontend.

Posts and pages you publish in the CMS appear here on the next request.`,
		},
		{
			Title:       "Running Directus on Kubernetes",
			Slug:        "running-directus-on-kubernetes",
			Status:      "published",
			DateCreated: now.Add(-48 * time.Hour),
			DateUpdated: &edited,
			Content: `## Layout

- one Directus deployment backed by PostgreSQL
- the frontend deployment, probed through ` + "`/api/health`" + `

| Service  | Probe            |
|----------|------------------|
| frontend | /api/health      |
| directus | /server/ping     |`,
		},
		{
			Title:       "Writing content in Markdown",
			Slug:        "writing-content-in-markdown",
			Status:      "published",
			DateCreated: now.Add(-24 * time.Hour),
			Content: `Content fields accept Markdown or HTML.

<p>Inline <em>HTML</em> is kept, scripts are not.</p>
<script>alert("stripped")</script>`,
		},
		{
			Title:       "Roadmap (draft)",
			Slug:        "roadmap",
			Status:      "draft",
			DateCreated: now.Add(-1 * time.Hour),
			Content:     "Not ready for readers yet.",
		},
		{
			Title:       "Launch checklist",
			Slug:        "launch-checklist",
			Status:      "archived",
			DateCreated: now.Add(-240 * time.Hour),
			Content:     "Superseded.",
		},
	}
}

func seedPages() []PageRecord {
	return []PageRecord{
		{
			Title:   "About",
			Slug:    "about",
			Status:  "published",
			Content: "# About Complai\n\nA modern CMS powered by Directus, deployed on Azure Kubernetes Service.",
		},
		{
			Title:   "Privacy",
			Slug:    "privacy",
			Status:  "published",
			Content: "We only store what you publish.",
		},
		{
			Title:   "Internal handbook",
			Slug:    "internal-handbook",
			Status:  "draft",
			Content: "Staff only.",
		},
	}
}

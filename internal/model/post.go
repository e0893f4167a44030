package model

// Status values used by the CMS collections.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

// Post 定义了 CMS 中 posts 集合的文章模型
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Slug        string    `json:"slug"`
	Status      string    `json:"status"`
	DateCreated Timestamp `json:"date_created"`
	DateUpdated Timestamp `json:"date_updated"`
}

// IsPublished reports whether the post may be shown publicly.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// MatchesSlug reports whether the post is addressed by slug.
func (p Post) MatchesSlug(slug string) bool {
	return p.Slug == slug
}

package model

// Page represents a standalone content page such as About.
type Page struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
}

// IsPublished reports whether the page may be shown publicly.
func (p Page) IsPublished() bool {
	return p.Status == StatusPublished
}

// MatchesSlug reports whether the page is addressed by slug.
func (p Page) MatchesSlug(slug string) bool {
	return p.Slug == slug
}

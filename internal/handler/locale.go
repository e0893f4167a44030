package handler

import (
	"net/url"
	"strings"

	"github.com/complai/internal/locale"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	localeContextKey   = "__request_locale"
	languageSessionKey = "lang"
)

// LocaleMiddleware resolves request language and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := a.requestLocale(c)
		if pref.HTMLLang != "" {
			c.Header("Content-Language", pref.HTMLLang)
		}
		appendVaryHeader(c, "Accept-Language", "Cookie")
		c.Next()
	}
}

func (a *API) requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	language, persist := a.resolveLanguage(c)
	pref := locale.PreferenceForLanguage(language)
	if persist {
		a.persistLanguage(c, pref.Language)
	}
	c.Set(localeContextKey, pref)
	return pref
}

// resolveLanguage 依次检查 ?lang、会话与 Accept-Language，最后回退到英文。
func (a *API) resolveLanguage(c *gin.Context) (string, bool) {
	if override := locale.NormalizeLanguage(c.Query("lang")); override != "" {
		return override, true
	}
	if stored := readSessionLanguage(c); stored != "" {
		return stored, false
	}
	if fromHeader := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); fromHeader != "" {
		return fromHeader, false
	}
	return locale.LanguageEnglish, false
}

func readSessionLanguage(c *gin.Context) string {
	session := sessionFrom(c)
	if session == nil {
		return ""
	}
	value, _ := session.Get(languageSessionKey).(string)
	return locale.NormalizeLanguage(value)
}

func (a *API) persistLanguage(c *gin.Context, language string) {
	normalized := locale.NormalizeLanguage(language)
	session := sessionFrom(c)
	if normalized == "" || session == nil {
		return
	}
	session.Set(languageSessionKey, normalized)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
}

// sessionFrom returns nil when the session middleware is not installed.
func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func buildLanguageSwitch(c *gin.Context) map[string]string {
	path := "/"
	rawQuery := ""
	if c.Request != nil && c.Request.URL != nil {
		path = c.Request.URL.Path
		rawQuery = c.Request.URL.RawQuery
	}
	values, _ := url.ParseQuery(rawQuery)
	values.Set("lang", locale.LanguageChinese)
	zhURL := path
	if encoded := values.Encode(); encoded != "" {
		zhURL += "?" + encoded
	}
	values.Set("lang", locale.LanguageEnglish)
	enURL := path
	if encoded := values.Encode(); encoded != "" {
		enURL += "?" + encoded
	}
	return map[string]string{
		"zh": zhURL,
		"en": enURL,
	}
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	existing := c.Writer.Header().Get("Vary")
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	for _, token := range strings.Split(existing, ",") {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	for _, header := range headers {
		trimmed := strings.TrimSpace(header)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}

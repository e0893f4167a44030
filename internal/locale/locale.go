package locale

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

// Preference describes the resolved UI language of a request.
type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

var (
	supportedLanguages = []string{LanguageEnglish, LanguageChinese}
	matcher            = language.NewMatcher([]language.Tag{language.English, language.Chinese})
)

// NormalizeLanguage maps free-form input to a supported language code, or "".
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage picks the best supported language for an
// Accept-Language header, honouring q-values. It returns "" when nothing
// acceptable is supported.
func LanguageFromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return supportedLanguages[index]
}

func PreferenceForLanguage(lang string) Preference {
	if NormalizeLanguage(lang) == LanguageChinese {
		return Preference{Language: LanguageChinese, Locale: "zh_CN", HTMLLang: "zh-CN"}
	}
	return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
}

// FormatDate renders a calendar date the way each language writes it.
func FormatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if NormalizeLanguage(lang) == LanguageChinese {
		return t.Format("2006年1月2日")
	}
	return t.Format("Jan 2, 2006")
}

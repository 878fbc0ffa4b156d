package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported response language.
type Lang string

const (
	EN Lang = "en"
	AR Lang = "ar"

	Default = EN
)

var (
	supported = []language.Tag{language.English, language.Arabic}
	matcher   = language.NewMatcher(supported)
)

func (l Lang) String() string {
	return string(l)
}

func (l Lang) IsValid() bool {
	return l == EN || l == AR
}

// Resolve picks the response language. An explicit query value wins over the Accept-Language header.
func Resolve(query, acceptLanguage string) Lang {
	if l, ok := parseExplicit(query); ok {
		return l
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	if supported[idx] == language.Arabic {
		return AR
	}
	return EN
}

func parseExplicit(raw string) (Lang, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ar":
		return AR, true
	case "en":
		return EN, true
	}
	return "", false
}

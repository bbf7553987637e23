package core

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// layout pairs a locale with the date-time layout browsers print for it.
type layout struct {
	tag    language.Tag
	layout string
}

// The first entry is the fallback for unmatched locales.
var layouts = []layout{
	{language.AmericanEnglish, "1/2/2006, 3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006, 15:04:05"},
	{language.German, "2.1.2006, 15:04:05"},
	{language.French, "02/01/2006 15:04:05"},
	{language.Spanish, "2/1/2006, 15:04:05"},
	{language.Italian, "2/1/2006, 15:04:05"},
	{language.BrazilianPortuguese, "02/01/2006, 15:04:05"},
	{language.EuropeanPortuguese, "02/01/2006, 15:04:05"},
	{language.Japanese, "2006/1/2 15:04:05"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(layouts))
	for i, l := range layouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// TimestampFormat renders note keys as locale-aware date-time strings with
// second granularity.
type TimestampFormat struct {
	Tag    language.Tag
	Layout string
}

// NewTimestampFormat matches locale (BCP 47 or POSIX, e.g. "en_US.UTF-8")
// against the known layouts. An empty locale selects American English.
func NewTimestampFormat(locale string) (*TimestampFormat, error) {
	locale = NormalizeLocale(locale)
	if locale == "" {
		return &TimestampFormat{Tag: layouts[0].tag, Layout: layouts[0].layout}, nil
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	_, idx, _ := matcher.Match(tag)
	return &TimestampFormat{Tag: layouts[idx].tag, Layout: layouts[idx].layout}, nil
}

// Format renders t in the matched layout.
func (f *TimestampFormat) Format(t time.Time) string {
	return t.Format(f.Layout)
}

// NormalizeLocale turns POSIX locale names into BCP 47 tags.
// "C" and "POSIX" map to the empty locale.
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

// Package pr classifies pull request titles by their release-note prefix.
//
// Motivated by https://github.com/kubernetes-sigs/kubebuilder-release-tools
package pr

import (
	"fmt"
	"regexp"
	"strings"
)

// Type is the release-note category of a pull request
type Type string

const (
	TypeFeature  Type = "Feature"
	TypeBugFix   Type = "BugFix"
	TypeDocs     Type = "Docs"
	TypeInfra    Type = "Infra"
	TypeBreaking Type = "Breaking"
	TypeNoNote   Type = "NoNote"
)

type prefix struct {
	alias string
	emoji string
	kind  Type
}

// prefixes are tried in this order
var prefixes = []prefix{
	{alias: ":sparkles:", emoji: "✨", kind: TypeFeature},
	{alias: ":bug:", emoji: "🐛", kind: TypeBugFix},
	{alias: ":book:", emoji: "📖", kind: TypeDocs},
	{alias: ":seedling:", emoji: "🌱", kind: TypeInfra},
	{alias: ":warning:", emoji: "⚠", kind: TypeBreaking},
	{alias: ":ghost:", emoji: "👻", kind: TypeNoNote},
}

// variationSelector is sometimes inserted after an emoji (macOS mostly)
const variationSelector = "\uFE0F"

var (
	wipPrefix = regexp.MustCompile(`(?i)^\W?WIP\W`)
	tagPrefix = regexp.MustCompile(`^\[[\w.-]*\]`)
)

// Title is a classified pull request title
type Title struct {
	Type  Type
	Title string
}

// String renders the classification for the job log
func (t Title) String() string {
	return fmt.Sprintf("PR type '%s'\n PR title '%s'", t.Type, t.Title)
}

// Classify strips an optional WIP marker and [tag], then matches the
// release-note alias at the start of the remaining title
func Classify(title string) (Title, error) {
	value := wipPrefix.ReplaceAllString(title, "")
	value = strings.TrimSpace(value)

	value = tagPrefix.ReplaceAllString(value, "")
	value = strings.TrimSpace(value)

	if value == "" {
		return Title{}, &TitleError{err: ErrEmptyTitle}
	}

	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(value, p.alias); ok {
			return Title{Type: p.kind, Title: trimSelector(rest)}, nil
		}
	}

	// Emoji are recognized only to give a more useful error
	for _, p := range prefixes {
		if strings.HasPrefix(value, p.emoji) {
			return Title{}, &TitleError{
				Title: trimSelector(value),
				Emoji: p.emoji,
				err:   ErrUnrecognizedEmojiPrefix,
			}
		}
	}

	return Title{}, &TitleError{Title: trimSelector(value), err: ErrNoRecognizedPrefix}
}

func trimSelector(title string) string {
	return strings.TrimSpace(strings.TrimPrefix(title, variationSelector))
}

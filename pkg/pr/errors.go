package pr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTitle              = errors.New("empty title")
	ErrUnrecognizedEmojiPrefix = errors.New("unrecognized emoji prefix")
	ErrNoRecognizedPrefix      = errors.New("no recognized prefix")
)

// TitleError describes a title that could not be classified. Use errors.Is
// with the Err* sentinels to tell the cases apart.
type TitleError struct {
	Title string
	// Emoji is set when the title starts with an emoji instead of its alias
	Emoji string
	err   error
}

// Error implements the error interface
func (e *TitleError) Error() string {
	var b strings.Builder
	if errors.Is(e.err, ErrEmptyTitle) {
		b.WriteString("Invalid title: title is empty after removing WIP and tag prefixes.\n")
	} else {
		fmt.Fprintf(&b, "Invalid prefix (title: %s, emoji: %q).\n", e.Title, e.Emoji)
	}
	b.WriteString("Valid prefixes are:\n")
	for _, p := range prefixes {
		b.WriteString(p.alias)
		b.WriteString("\n")
	}
	return b.String()
}

// Unwrap returns the sentinel describing the failure
func (e *TitleError) Unwrap() error {
	return e.err
}

/* share.go
 * Contains the logic for building share links and describing the result page for a category slug
 */

package logic

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"l2match/api/shared"
)

// DefaultSlug is the slug shown by the result page when none is given
const DefaultSlug = "base"

// UnknownPersonality is shown for slugs that match no category
const UnknownPersonality = "Unknown Personality"

// ErrNoResult is returned when an operation needs a result but the quiz has not produced or loaded one
var ErrNoResult = errors.New("result is not available")

// Slug returns the lower cased name of the first category in a result string, e.g. "base" for
// "Base: Practical Innovator! & Arbitrum: Technical Explorer!"
func Slug(result string) string {
	first := strings.SplitN(result, ResultSeparator, 2)[0]
	name := strings.SplitN(first, ":", 2)[0]
	return strings.ToLower(strings.TrimSpace(name))
}

// ShareLink builds the public result link for a result
// Preconditions: Receives the base URL of the frame and a result string
// Postconditions: Returns <base>/result?score=<slug>, or ErrNoResult if the result is empty
func ShareLink(baseURL string, result string) (string, error) {
	slug := Slug(result)
	if slug == "" {
		return "", ErrNoResult
	}
	return fmt.Sprintf("%s/result?score=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(slug)), nil
}

// ShareText is the post text offered when sharing a result link
func ShareText(baseURL string, result string) (string, error) {
	link, err := ShareLink(baseURL, result)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s is my L2 soulmate! 🎉 Check out my score graph: %s. Take the quiz and find yours! 🚀 %s",
		Capitalize(Slug(result)), link, strings.TrimRight(baseURL, "/")), nil
}

// SendText is the direct message sent when a result is shared with another address
func SendText(result string) string {
	return "Result saved onchain: " + result
}

// ComposeURL returns the Warpcast compose link pre-filled with text
func ComposeURL(text string) string {
	return "https://warpcast.com/~/compose?text=" + encodeURIComponent(text)
}

// DescribeSlug returns the display name and personality description for a result page slug.
// An empty slug falls back to DefaultSlug.
func DescribeSlug(slug string) (string, string) {
	if slug == "" {
		slug = DefaultSlug
	}
	category, ok := CategoryForSlug(slug)
	if !ok {
		return Capitalize(slug), UnknownPersonality
	}
	_, description, _ := strings.Cut(category.Label(), ":")
	return Capitalize(slug), strings.TrimSpace(description)
}

// CategoryForSlug returns the category a lower cased slug names
func CategoryForSlug(slug string) (shared.Category, bool) {
	for _, category := range shared.Categories {
		if strings.ToLower(string(category)) == slug {
			return category, true
		}
	}
	return "", false
}

// Capitalize upper cases the first letter of s
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// encodeURIComponent escapes like the browser function of the same name: spaces become %20, not +
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, keep := range []string{"!", "'", "(", ")", "*", "~"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(keep), keep)
	}
	return escaped
}

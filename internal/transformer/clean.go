package transformer

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regular expressions for HTML reduction.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	anySpaces         = regexp.MustCompile(`\s+`)
	lineSpaces        = regexp.MustCompile(`[ \t]+`)
)

// Clean reduces markup to plain text: script/style subtrees dropped, tags
// stripped, entities decoded, consecutive whitespace collapsed to single
// spaces, trimmed. Returns "" when the value reduces to nothing.
func Clean(content string) string {
	if content == "" {
		return ""
	}
	return cleanText(stripMarkup(content))
}

// CleanBlocks is the line-preserving variant of Clean: block-element
// boundaries become newlines and whitespace is collapsed within each line.
// Section-heading extraction scans this form line by line.
func CleanBlocks(content string) string {
	if content == "" {
		return ""
	}

	text := lineSpaces.ReplaceAllString(stripMarkup(content), " ")

	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// stripMarkup removes tags, keeping newlines at block boundaries.
func stripMarkup(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

// cleanText collapses all whitespace runs to single spaces and trims.
func cleanText(text string) string {
	return strings.TrimSpace(anySpaces.ReplaceAllString(text, " "))
}

// stringValue renders a decoded JSON scalar as a string. Integral numbers
// keep their plain digits (the source encodes dates as bare numbers).
// Non-scalar values render empty.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return ""
	}
}

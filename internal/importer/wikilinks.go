package importer

import (
	"regexp"
	"strings"
)

// wikilinkRe matches [[link]] and [[link|alias]] patterns.
var wikilinkRe = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]+?))?\]\]`)

// StripWikiLinks replaces [[wiki-links]] with plain text: the alias when
// present, the target otherwise.
func StripWikiLinks(content string) string {
	return wikilinkRe.ReplaceAllStringFunc(content, func(match string) string {
		parts := wikilinkRe.FindStringSubmatch(match)
		if alias := strings.TrimSpace(parts[2]); alias != "" {
			return alias
		}
		return strings.TrimSpace(parts[1])
	})
}

// inlineTagRe finds #hashtag patterns in text.
var inlineTagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// splitTags removes inline #tags from text and returns the remaining text
// and the tags in order of first appearance, deduplicated case-insensitively.
func splitTags(text string) (string, []string) {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range inlineTagRe.FindAllStringSubmatch(text, -1) {
		if lower := strings.ToLower(m[1]); !seen[lower] {
			seen[lower] = true
			tags = append(tags, m[1])
		}
	}
	stripped := inlineTagRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(stripped), " "), tags
}

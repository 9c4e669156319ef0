package bot

import "strings"

// TrackedTags — фиксированный словарь тегов; первый найденный тег считается
// основным.
var TrackedTags = []string{"#BUG", "#UIFIX", "#FEATURE"}

// ExtractTags returns the tracked tags present in text, in vocabulary scan
// order, matched case-insensitively. Empty text yields no tags.
func ExtractTags(text string) []string {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)

	var found []string
	for _, tag := range TrackedTags {
		if strings.Contains(upper, tag) {
			found = append(found, tag)
		}
	}
	return found
}

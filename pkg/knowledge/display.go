package knowledge

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TopicWords splits a topic key such as "express-routing" into its words.
func TopicWords(topicKey string) []string {
	return strings.FieldsFunc(strings.ToLower(topicKey), func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '/' || r == '.'
	})
}

// DisplayName renders a topic key for prose: "express-routing" becomes
// "Express Routing". An empty key yields "this topic".
func DisplayName(topicKey string) string {
	words := TopicWords(topicKey)
	if len(words) == 0 {
		return "this topic"
	}
	return titleCaser.String(strings.Join(words, " "))
}

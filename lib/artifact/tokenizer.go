package artifact

import (
	"strings"

	"github.com/forPelevin/gomoji"
)

// tokenize splits message to lowercased, deduplicated tokens the same way the training job does.
// Emojis and surrounding punctuation are removed, tokens shorter than 3 runes are skipped.
func tokenize(msg string, excluded map[string]struct{}) []string {
	seen := make(map[string]struct{})
	res := []string{}
	for _, token := range strings.Fields(msg) {
		if _, ok := excluded[strings.ToLower(token)]; ok {
			continue
		}
		token = gomoji.RemoveEmojis(token)
		token = strings.Trim(token, ".,!?-:;()#\"'")
		token = strings.ToLower(token)
		if len([]rune(token)) < 3 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		res = append(res, token)
	}
	return res
}

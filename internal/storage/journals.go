package storage

import (
	"strconv"
	"strings"
)

// Resolve picks a journal from journals by its index or by a
// case-insensitive prefix of its name. The first match wins.
func Resolve(input string, journals []string) (string, bool) {
	input = strings.TrimSpace(input)
	if i, err := strconv.Atoi(input); err == nil {
		if i >= 0 && i < len(journals) {
			return journals[i], true
		}
		return "", false
	}

	lower := strings.ToLower(input)
	for _, name := range journals {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			return name, true
		}
	}
	return "", false
}

package scoring

import (
	"sort"
	"strings"
)

// Summarize builds the one-line description of a hero quiz from its
// descriptive tag multiset: the three most frequent tags, ties broken by
// first appearance, rendered through the phrase dictionary. Tags without a
// dictionary entry render verbatim.
func Summarize(tags []string, phrases map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	counts := make(map[string]int, len(tags))
	firstSeen := make(map[string]int, len(tags))
	var order []string
	for i, tag := range tags {
		if counts[tag] == 0 {
			firstSeen[tag] = i
			order = append(order, tag)
		}
		counts[tag]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})
	if len(order) > 3 {
		order = order[:3]
	}

	parts := make([]string, len(order))
	for i, tag := range order {
		if phrase, ok := phrases[tag]; ok {
			parts[i] = phrase
		} else {
			parts[i] = tag
		}
	}

	switch len(parts) {
	case 1:
		return "You look for " + parts[0] + "."
	case 2:
		return "You look for " + parts[0] + " and " + parts[1] + "."
	default:
		return "You look for " + strings.Join(parts[:len(parts)-1], ", ") +
			" and " + parts[len(parts)-1] + "."
	}
}

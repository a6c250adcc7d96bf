package memory

import (
	"sort"
	"strings"

	"github.com/entl/membox/internal/storage"
)

// rankCommands reorders search results in place by relevance to the
// query. Commands that were recalled more often, or match the query
// closer to their start, float up; the incoming recency order is used
// as the tiebreaker via a stable sort.
func rankCommands(commands []*storage.Command, query string) {
	scores := make(map[string]float64, len(commands))
	for _, cmd := range commands {
		scores[cmd.ID] = scoreCommand(cmd, query)
	}
	sort.SliceStable(commands, func(i, j int) bool {
		return scores[commands[i].ID] > scores[commands[j].ID]
	})
}

// scoreCommand computes a relevance score for one search hit.
func scoreCommand(cmd *storage.Command, query string) float64 {
	var score float64

	lowerCmd := strings.ToLower(cmd.Command)
	lowerQuery := strings.ToLower(query)

	// Prefix matches beat mid-string matches
	if strings.HasPrefix(lowerCmd, lowerQuery) {
		score += 0.4
		// Exact case match bonus
		if strings.HasPrefix(cmd.Command, query) {
			score += 0.05
		}
	} else if strings.Contains(lowerCmd, lowerQuery) {
		score += 0.2
	}

	// Match quality: the more of the command the query covers, the better
	if len(cmd.Command) > 0 {
		score += 0.2 * float64(len(query)) / float64(len(cmd.Command))
	}

	// Frequently recalled commands get a capped usage boost
	usage := float64(cmd.UseCount)
	if usage > 10 {
		usage = 10
	}
	score += usage * 0.03

	return score
}

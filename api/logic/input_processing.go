/* input_processing.go
 * Contains the logic for resolving free text chat input to one of a question's options
 */

package logic

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchOption resolves user input to the exact label of one of the options.
// Preconditions: receives the raw input and the option labels of the current question
// Postconditions: returns the option label and true, or an empty string and false when nothing matches.
// An exact case-insensitive match always wins, otherwise the closest fuzzy match is taken.
func MatchOption(input string, options []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	lookup := make(map[string]string)
	var optionsLower []string
	for _, option := range options {
		lower := strings.ToLower(option)
		lookup[lower] = option
		optionsLower = append(optionsLower, lower)
	}

	lowerInput := strings.ToLower(input)
	if option, ok := lookup[lowerInput]; ok {
		return option, true
	}

	ranks := fuzzy.RankFind(lowerInput, optionsLower)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return lookup[ranks[0].Target], true
}

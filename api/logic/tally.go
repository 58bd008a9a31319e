/* tally.go
 * Contains the score tally and the logic for turning a finished score into a result
 */

package logic

import (
	"strings"

	"l2match/api/shared"
)

// ResultSeparator joins the labels of categories that tie for the highest score
const ResultSeparator = " & "

// ApplyAnswer adds the points for the chosen option to a copy of the score.
// Preconditions: chosen should equal one of the question's option labels exactly
// Postconditions: Returns the new score with exactly one category incremented, or the score unchanged when the label
// matches no option
func ApplyAnswer(score shared.Score, question shared.Question, chosen string) shared.Score {
	for i, option := range question.Options {
		if option != chosen {
			continue
		}
		category := shared.OptionCategories[i]
		return score.Add(category, question.PointsFor(category))
	}
	// Unmatched labels are ignored rather than rejected
	return score
}

// ComputeResult finds every category tied for the highest score and joins their labels in category order.
// All four categories take part, including zkSync which no question awards, so an all zero score ties every category.
func ComputeResult(score shared.Score) (string, []shared.Category) {
	max := score[0]
	for _, value := range score[1:] {
		if value > max {
			max = value
		}
	}

	var winners []shared.Category
	var labels []string
	for i, category := range shared.Categories {
		if score[i] == max {
			winners = append(winners, category)
			labels = append(labels, category.Label())
		}
	}
	return strings.Join(labels, ResultSeparator), winners
}

// CategoryShare is one bar of the score graph
type CategoryShare struct {
	Category shared.Category `json:"category"`
	Score    int             `json:"score"`
	Max      int             `json:"max"`
	Percent  float64         `json:"percent"`
}

// Distribution returns each category's score as a percentage of the highest possible score, one point per question
func Distribution(score shared.Score, totalQuestions int) []CategoryShare {
	shares := make([]CategoryShare, 0, shared.NumCategories)
	for i, category := range shared.Categories {
		share := CategoryShare{Category: category, Score: score[i], Max: totalQuestions}
		if totalQuestions > 0 {
			share.Percent = float64(score[i]) / float64(totalQuestions) * 100
		}
		shares = append(shares, share)
	}
	return shares
}

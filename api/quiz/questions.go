/* questions.go
 * Contains the fixed question bank of the quiz
 */

package quiz

import "l2match/api/shared"

var onePointEach = map[shared.Category]int{shared.Base: 1, shared.Arbitrum: 1, shared.Optimism: 1}

// DefaultQuestions returns the five questions of the quiz, in order. Option 0 scores Base, option 1 Arbitrum and
// option 2 Optimism.
func DefaultQuestions() []shared.Question {
	prompts := []struct {
		prompt  string
		options [shared.OptionsPerQuestion]string
	}{
		{"What’s your main criterion when choosing a network?",
			[3]string{"Low fees and speed", "Advanced technical performance", "Social mission and community"}},
		{"How do you prefer to test new dApps?",
			[3]string{"If there’s an airdrop, I’ll test it!", "Only if it’s stable and audited", "I support if it’s decentralized"}},
		{"What’s your online lifestyle?",
			[3]string{"Practical and to the point", "Analytical, I love technical details", "Engaged in communities"}},
		{"What would you do with a $10k crypto grant?",
			[3]string{"Build a simple and useful dApp", "Invest in technical innovation", "Fund a social project"}},
		{"What’s your priority in a network?",
			[3]string{"Speed and low cost", "Developer tools", "Inclusion and social impact"}},
	}

	questions := make([]shared.Question, 0, len(prompts))
	for i, p := range prompts {
		points := make(map[shared.Category]int, len(onePointEach))
		for k, v := range onePointEach {
			points[k] = v
		}
		questions = append(questions, shared.Question{
			Position: i,
			Prompt:   p.prompt,
			Options:  p.options,
			Points:   points,
		})
	}
	return questions
}

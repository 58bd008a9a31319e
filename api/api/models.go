/* models.go
 * This file contain the interfaces, structs and helper functions that are used by api consumers
 */

package api

import (
	"context"

	"l2match/api/logic"
	"l2match/api/quiz"
	"l2match/api/shared"
)

// Publisher sends a raw JSON payload to the result relay
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// QuizView is the state of one session as shown to the user
type QuizView struct {
	Session      string                `json:"session"`
	Question     *shared.Question      `json:"question,omitempty"`
	Progress     quiz.Progress         `json:"progress"`
	Finished     bool                  `json:"finished"`
	Result       string                `json:"result,omitempty"`
	Score        shared.Score          `json:"score"`
	Distribution []logic.CategoryShare `json:"distribution,omitempty"`
	DarkMode     bool                  `json:"darkMode"`
}

// ShareView holds everything needed to share a result
type ShareView struct {
	Result     string `json:"result"`
	Slug       string `json:"slug"`
	Link       string `json:"link"`
	Text       string `json:"text"`
	ComposeURL string `json:"composeUrl"`
}

// relayMessage is the payload published to the relay when a quiz is finished
type relayMessage struct {
	Result  string       `json:"result"`
	Score   shared.Score `json:"score"`
	Session string       `json:"session"`
}

/* bot.go
 * Contains the Bot struct and helpers used for creating the bot. Requires a discord bot token and an APIPtr, both of
 * which are passed in from main.go
 */

package bot

import (
	"fmt"
	"strings"

	"l2match/api/api"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

// sessionID returns the quiz session of a discord user
func sessionID(authorID string) string {
	return "discord:" + authorID
}

// Helper function to check if a string starts with a given command
// Preconditions: Receives an input string and a command
// Postconditions: Returns true if the command is at the start of the string, else returns false
func startsWith(inputString string, command string) bool {
	return strings.HasPrefix(inputString, command)
}

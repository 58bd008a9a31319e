/* handlers_test.go
 * Contains unit tests for bot command handlers using mock Discord session
 */

package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"l2match/api/api"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID    = "user123"
	username  = "TestUser"
	channelID = "channel123"
)

// createTestBot creates a Bot instance with a mock store for testing
func createTestBot(t *testing.T) (*Bot, *api.MockStore) {
	mockStore := api.NewMockStore()
	apiPtr, err := api.NewAPI(mockStore, api.Config{BaseURL: "https://l2match.vercel.app"})
	require.NoError(t, err)

	return &Bot{BotToken: "test_token", APIPtr: apiPtr}, mockStore
}

// createMockMessage creates a mock Discord message for testing
func createMockMessage(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: channelID,
			Author: &discordgo.User{
				ID:       userID,
				Username: username,
			},
		},
	}
}

// send runs content through the router and returns the mock session
func send(b *Bot, mockSession *MockDiscordSession, content string) {
	b.newMessageHandler(mockSession, createMockMessage(content), "bot_id")
}

// finish answers all five questions with option n
func finish(b *Bot, mockSession *MockDiscordSession, n string) {
	for i := 0; i < 5; i++ {
		send(b, mockSession, "$answer "+n)
	}
}

// region routing tests

func TestNewMessageHandler_IgnoresOwnMessages(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	b.newMessageHandler(mockSession, createMockMessage("$help"), userID)

	assert.Empty(t, mockSession.SentMessages)
}

func TestNewMessageHandler_IgnoresUnknownCommands(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "hello there")
	send(b, mockSession, "$leaderboard")

	assert.Empty(t, mockSession.SentMessages)
}

func TestHelpMessage(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$help")

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Equal(t, channelID, msg.ChannelID)
	for _, cmd := range []string{"$quiz", "$answer", "$result", "$reset", "$share"} {
		assert.Contains(t, msg.Content, cmd)
	}
}

// endregion

// region quiz tests

func TestQuiz_ShowsFirstQuestion(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$quiz")

	embed := mockSession.GetLastMessage().Embed
	require.NotNil(t, embed)
	assert.Equal(t, "Question 1 of 5 (20%)", embed.Title)
	assert.Equal(t, b.APIPtr.Questions[0].Prompt, embed.Description)
	assert.Contains(t, embed.Fields[0].Value, "1. Low fees and speed")
}

func TestAnswer_ByNumber(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$answer 2")

	embed := mockSession.GetLastMessage().Embed
	require.NotNil(t, embed)
	assert.Equal(t, "Question 2 of 5 (40%)", embed.Title)
}

func TestAnswer_ByQuotedText(t *testing.T) {
	b, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, `$answer "social mission"`)
	send(b, mockSession, `$answer "I support if it’s decentralized"`)
	send(b, mockSession, "$answer engaged")
	send(b, mockSession, "$answer 3")
	send(b, mockSession, "$answer inclusion")

	embed := mockSession.GetLastMessage().Embed
	require.NotNil(t, embed)
	assert.Equal(t, "Optimism: Social Idealist!", embed.Description)
	assert.Equal(t, "Optimism: Social Idealist!", mockStore.Values["score:anonymous"])
}

func TestAnswer_OutOfRange(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$answer 4")

	msg := mockSession.GetLastMessage()
	assert.Nil(t, msg.Embed)
	assert.Contains(t, msg.Content, "did not match any option")
}

func TestAnswer_NoMatch(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$answer qqqq")

	assert.Contains(t, mockSession.GetLastMessage().Content, "'qqqq' did not match any option")
	send(b, mockSession, "$quiz")
	assert.Equal(t, "Question 1 of 5 (20%)", mockSession.GetLastMessage().Embed.Title)
}

func TestAnswer_ConcurrentAnswersAreNotLost(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			send(b, mockSession, "$answer 1")
		}()
	}
	wg.Wait()

	view, err := b.APIPtr.State(context.Background(), sessionID(userID))
	require.NoError(t, err)
	assert.Equal(t, 4, view.Score.Get("Base"))
	require.NotNil(t, view.Question)
	assert.Equal(t, 4, view.Question.Position)
}

func TestAnswer_Empty(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$answer")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Usage")
}

func TestAnswer_AfterFinish(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	finish(b, mockSession, "1")

	send(b, mockSession, "$answer 2")

	assert.Contains(t, mockSession.GetLastMessage().Content, "already finished the quiz")
}

func TestAnswer_FinishedShowsDistribution(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	finish(b, mockSession, "1")

	embed := mockSession.GetLastMessage().Embed
	require.NotNil(t, embed)
	assert.Equal(t, "TestUser's Layer 2 match", embed.Title)
	assert.Equal(t, "Base: Practical Innovator!", embed.Description)
	assert.Contains(t, embed.Fields[0].Value, "Base: 5/5 (100%)")
	assert.Contains(t, embed.Fields[0].Value, "zkSync: 0/5 (0%)")
}

func TestReset(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	finish(b, mockSession, "1")
	mockSession.ClearMessages()

	send(b, mockSession, "$reset")

	require.Len(t, mockSession.SentMessages, 2)
	assert.Equal(t, "TestUser's quiz has been reset", mockSession.SentMessages[0].Content)
	assert.Equal(t, "Question 1 of 5 (20%)", mockSession.SentMessages[1].Embed.Title)
}

// endregion

// region result and share tests

func TestResult_NoResult(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$result")

	assert.Equal(t, "TestUser does not have a result yet. Use $quiz to start", mockSession.GetLastMessage().Content)
}

func TestResult_AfterFinish(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	finish(b, mockSession, "2")

	send(b, mockSession, "$result")

	assert.Equal(t, "TestUser's L2 match: Arbitrum: Technical Explorer!", mockSession.GetLastMessage().Content)
}

func TestResult_FromStore(t *testing.T) {
	b, mockStore := createTestBot(t)
	mockStore.Values["score:anonymous"] = "Base: Practical Innovator! & Arbitrum: Technical Explorer!"
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$result")

	assert.Equal(t, "TestUser's L2 match: Base: Practical Innovator! & Arbitrum: Technical Explorer!",
		mockSession.GetLastMessage().Content)
}

func TestShare(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	finish(b, mockSession, "3")

	send(b, mockSession, "$share")

	content := mockSession.GetLastMessage().Content
	assert.Contains(t, content, "Optimism is my L2 soulmate!")
	assert.Contains(t, content, "https://l2match.vercel.app/result?score=optimism")
	assert.Contains(t, content, "https://warpcast.com/~/compose?text=")
}

func TestShare_NoResult(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(b, mockSession, "$share")

	assert.Equal(t, "Result is not available to save.", mockSession.GetLastMessage().Content)
}

// endregion

func TestMockSession_Error(t *testing.T) {
	b, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	mockSession.ErrorToReturn = errors.New("discord unavailable")

	send(b, mockSession, "$quiz")

	assert.Empty(t, mockSession.SentMessages)
}

// region input parsing tests

func TestAnswerInput(t *testing.T) {
	tests := []struct {
		content  string
		expected string
	}{
		{"$answer 1", "1"},
		{`$answer "Developer tools"`, "Developer tools"},
		{"$answer developer tools", "developer tools"},
		{"$answer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.expected, answerInput(tt.content))
		})
	}
}

func TestResolveAnswer(t *testing.T) {
	options := []string{"Speed and low cost", "Developer tools", "Inclusion and social impact"}

	label, ok := resolveAnswer("3", options)
	assert.True(t, ok)
	assert.Equal(t, "Inclusion and social impact", label)

	label, ok = resolveAnswer("dev", options)
	assert.True(t, ok)
	assert.Equal(t, "Developer tools", label)

	_, ok = resolveAnswer("0", options)
	assert.False(t, ok)
}

// endregion

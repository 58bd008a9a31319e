/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"l2match/api/api"
	"l2match/api/logic"
	"l2match/api/quiz"
	"l2match/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

const embedColour = 0x4f46e5

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("L2 Match Bot\n")
	res.WriteString("Find the Layer 2 network that matches your personality in five questions.\n")
	res.WriteString("`$quiz`: shows your current question, or your result once you have finished\n")
	res.WriteString("`$answer <n>`: answers the current question with option n (1-3). You can also type the answer, ")
	res.WriteString("there is fuzzy matching on answers. Answers with spaces can be wrapped in \" (e.g. \"Developer tools\")\n")
	res.WriteString("`$result`: shows your last result\n")
	res.WriteString("`$reset`: starts the quiz again\n")
	res.WriteString("`$share`: gets a link to share your result\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// quizHandler handles the $quiz command with a DiscordSession interface
func (b *Bot) quizHandler(session DiscordSession, message *discordgo.MessageCreate) {
	view, err := b.APIPtr.State(context.Background(), sessionID(message.Author.ID))
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An unexpected error occured")
		return
	}
	b.sendView(session, message, view)
}

// answerHandler handles the $answer command with a DiscordSession interface. The input is resolved against the
// current question inside the same session lock the answer is applied under.
func (b *Bot) answerHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}

	input := answerInput(message.Content)
	if input == "" {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$answer <n>` or `$answer \"your answer\"`")
		return
	}

	view, err := b.APIPtr.AnswerWith(context.Background(), sessionID(user.UserID), func(q shared.Question) (string, bool) {
		return resolveAnswer(input, q.Options[:])
	})
	switch {
	case err == nil:
		b.sendView(session, message, view)
	case errors.Is(err, quiz.ErrQuizFinished):
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("%s has already finished the quiz. Use $reset to start again", user.Username))
	case errors.Is(err, api.ErrNoMatch):
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("'%s' did not match any option. %s", input, formatOptions(view.Question.Options[:])))
	default:
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An unexpected error occured")
	}
}

// resultHandler handles the $result command with a DiscordSession interface
func (b *Bot) resultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	result, err := b.APIPtr.Result(context.Background(), sessionID(message.Author.ID))
	if err != nil {
		if errors.Is(err, logic.ErrNoResult) {
			session.ChannelMessageSend(message.ChannelID,
				fmt.Sprintf("%s does not have a result yet. Use $quiz to start", message.Author.Username))
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting your result")
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s's L2 match: %s", message.Author.Username, result))
}

// resetHandler handles the $reset command with a DiscordSession interface
func (b *Bot) resetHandler(session DiscordSession, message *discordgo.MessageCreate) {
	view, err := b.APIPtr.Reset(context.Background(), sessionID(message.Author.ID))
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured resetting the quiz")
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s's quiz has been reset", message.Author.Username))
	b.sendView(session, message, view)
}

// shareHandler handles the $share command with a DiscordSession interface
func (b *Bot) shareHandler(session DiscordSession, message *discordgo.MessageCreate) {
	share, err := b.APIPtr.Share(context.Background(), sessionID(message.Author.ID))
	if err != nil {
		if errors.Is(err, logic.ErrNoResult) {
			session.ChannelMessageSend(message.ChannelID, logic.MsgNoResultToSave)
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured sharing your result")
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s\nCast it: %s", share.Text, share.ComposeURL))
}

// sendView posts the current question, or the result once the quiz is finished, as an embed
func (b *Bot) sendView(session DiscordSession, message *discordgo.MessageCreate, view api.QuizView) {
	if view.Finished {
		var dist strings.Builder
		for _, share := range view.Distribution {
			dist.WriteString(fmt.Sprintf("%s: %d/%d (%.0f%%)\n", share.Category, share.Score, share.Max, share.Percent))
		}
		session.ChannelMessageSendEmbed(message.ChannelID, &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s's Layer 2 match", message.Author.Username),
			Description: view.Result,
			Color:       embedColour,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Score", Value: dist.String()},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "Use $share to share it or $reset to play again"},
		})
		return
	}

	q := view.Question
	session.ChannelMessageSendEmbed(message.ChannelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Question %d of %d (%.0f%%)", view.Progress.Current, view.Progress.Total, view.Progress.Percent),
		Description: q.Prompt,
		Color:       embedColour,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Options", Value: formatOptions(q.Options[:])},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Reply with $answer <n>"},
	})
}

// answerInput returns the text after the command, with quoted words kept together and the quotes removed
func answerInput(content string) string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(content)
	if err != nil || len(parts) < 2 {
		return ""
	}

	var words []string
	for _, p := range parts[1:] {
		p = strings.Trim(strings.TrimSpace(p), "\"“”")
		if p != "" {
			words = append(words, p)
		}
	}
	return strings.Join(words, " ")
}

// resolveAnswer turns an option number or free text into one of the option labels
func resolveAnswer(input string, options []string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", false
		}
		return options[n-1], true
	}
	return logic.MatchOption(input, options)
}

func formatOptions(options []string) string {
	var res strings.Builder
	for i, option := range options {
		res.WriteString(fmt.Sprintf("%d. %s\n", i+1, option))
	}
	return res.String()
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$quiz"):
		b.quizHandler(session, message)

	case startsWith(message.Content, "$answer"):
		b.answerHandler(session, message)

	case startsWith(message.Content, "$result"):
		b.resultHandler(session, message)

	case startsWith(message.Content, "$reset"):
		b.resetHandler(session, message)

	case startsWith(message.Content, "$share"):
		b.shareHandler(session, message)
	}
}

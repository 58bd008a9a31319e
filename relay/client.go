/* client.go
 * Contains the publishing side of the relay, used by the frame to announce a finished quiz
 */

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Client publishes quiz results to a relay server
type Client struct {
	URL    string
	Dialer *websocket.Dialer
}

func NewClient(url string) *Client {
	return &Client{URL: url, Dialer: websocket.DefaultDialer}
}

// Publish dials the relay and sends one quizResult event carrying payload
// Preconditions: payload is valid JSON
// Postconditions: Returns nil once the event is written, or an error if the relay cannot be reached
func (c *Client) Publish(ctx context.Context, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("payload is not valid json")
	}

	msg, err := json.Marshal(Envelope{Event: EventQuizResult, Data: payload})
	if err != nil {
		return err
	}

	conn, _, err := c.Dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("error dialing relay %s: %w", c.URL, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)

	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("error publishing to relay: %w", err)
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}

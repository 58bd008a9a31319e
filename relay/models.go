/* models.go
 * Contains the configuration and wire types of the result relay
 */

package relay

import "encoding/json"

// EventQuizResult is the only event the relay forwards
const EventQuizResult = "quizResult"

// DefaultMaxMessageSize matches the 1 MB payload limit socket.io servers apply by default
const DefaultMaxMessageSize = 1_000_000

// Config holds the configuration for the relay server
type Config struct {
	Addr string
	// RateLimit is the number of messages per second accepted from one connection, Burst the bucket size.
	// Zero disables the limit.
	RateLimit float64
	Burst     int
	// MaxMessageSize is the largest inbound message in bytes. Larger messages are logged and end the connection.
	MaxMessageSize int64
	// AllowedOrigin is matched against the Origin header of upgrade requests, "*" allows any
	AllowedOrigin string
	// QueueSize is the number of outgoing messages buffered per connection before it is dropped
	QueueSize int
}

// Envelope is a message on the relay socket. Data is forwarded untouched.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c Config) withDefaults() Config {
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = 1
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = "*"
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 16
	}
	return c
}

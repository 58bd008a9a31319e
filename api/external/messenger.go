/* messenger.go
 * Contains the client used to send a direct message from one account address to another over an AMQP topic exchange.
 * Every message for an address is published with the routing key dm.<address>, so a consumer bound to that key sees
 * the conversation for that address.
 */

package external

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange is the topic exchange direct messages are published to
	DefaultExchange = "l2match.messages"
	// DefaultMaxChannels is how many per sender channels are kept open before the least recently used is closed
	DefaultMaxChannels = 256
)

// Messenger sends a text message between two account addresses
type Messenger interface {
	Send(ctx context.Context, from, to, text string) error
}

// publisher is the subset of amqp.Channel the messenger uses
type publisher interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type channelOpener func() (publisher, error)

// AMQPMessenger keeps one channel per sender, created on the first message from that sender and reused after.
// At most DefaultMaxChannels are open at once, the least recently used is closed to make room.
type AMQPMessenger struct {
	exchange string
	open     channelOpener
	conn     *amqp.Connection

	// mu is held for the whole of a Send so a channel is never closed while it publishes
	mu       sync.Mutex
	channels *lru.Cache
}

var _ Messenger = (*AMQPMessenger)(nil)

// NewAMQPMessenger connects to the broker
// Postconditions: returns ErrNotConfigured if url is empty
func NewAMQPMessenger(url, exchange string) (*AMQPMessenger, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to broker: %w", err)
	}

	m, err := newMessenger(exchange, DefaultMaxChannels, func() (publisher, error) {
		return conn.Channel()
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	m.conn = conn
	return m, nil
}

func newMessenger(exchange string, maxChannels int, open channelOpener) (*AMQPMessenger, error) {
	channels, err := lru.NewWithEvict(maxChannels, func(key, value interface{}) {
		value.(publisher).Close()
	})
	if err != nil {
		return nil, fmt.Errorf("error creating channel cache: %w", err)
	}

	return &AMQPMessenger{
		exchange: exchange,
		open:     open,
		channels: channels,
	}, nil
}

// RoutingKey returns the routing key messages for an address are published with
func RoutingKey(address string) string {
	return "dm." + strings.ToLower(address)
}

// Send publishes text to the conversation of the destination address
func (m *AMQPMessenger) Send(ctx context.Context, from, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, err := m.channel(from)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, m.exchange, RoutingKey(to), false, false, amqp.Publishing{
		ContentType:  "text/plain",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		AppId:        "l2match",
		Headers:      amqp.Table{"from": strings.ToLower(from)},
		Body:         []byte(text),
	})
	if err != nil {
		// A failed publish can leave the channel closed, open a fresh one next time
		m.channels.Remove(strings.ToLower(from))
		return fmt.Errorf("error publishing message: %w", err)
	}
	return nil
}

// channel returns the channel for a sender, opening and declaring the exchange on first use. Must be called with
// m.mu held.
func (m *AMQPMessenger) channel(from string) (publisher, error) {
	key := strings.ToLower(from)

	if ch, ok := m.channels.Get(key); ok {
		return ch.(publisher), nil
	}

	ch, err := m.open()
	if err != nil {
		return nil, fmt.Errorf("error opening channel: %w", err)
	}
	if err := ch.ExchangeDeclare(m.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("error declaring exchange: %w", err)
	}

	log.Printf("Opened message channel for %s", key)
	if m.channels.Add(key, ch) {
		log.Printf("Closed least recently used message channel, %d channels open", m.channels.Len())
	}
	return ch, nil
}

// Close closes every open channel and the connection
func (m *AMQPMessenger) Close() error {
	m.mu.Lock()
	m.channels.Purge()
	m.mu.Unlock()

	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

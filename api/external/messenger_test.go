/* messenger_test.go
 * Contains unit tests for the direct message client using a fake channel
 */

package external

import (
	"context"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
	declareErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

// countingOpener hands out fresh fake channels and remembers them
type countingOpener struct {
	channels []*fakeChannel
	next     func() *fakeChannel
	err      error
}

func (o *countingOpener) open() (publisher, error) {
	if o.err != nil {
		return nil, o.err
	}
	ch := &fakeChannel{}
	if o.next != nil {
		ch = o.next()
	}
	o.channels = append(o.channels, ch)
	return ch, nil
}

const (
	alice = "0xAbC0000000000000000000000000000000000001"
	bob   = "0xDeF0000000000000000000000000000000000002"
)

func newTestMessenger(t *testing.T, maxChannels int, open channelOpener) *AMQPMessenger {
	m, err := newMessenger(DefaultExchange, maxChannels, open)
	require.NoError(t, err)
	return m
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "dm.0xabc0000000000000000000000000000000000001", RoutingKey(alice))
}

func TestSend_PublishesToDestination(t *testing.T) {
	opener := &countingOpener{}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)

	err := m.Send(context.Background(), alice, bob, "Result saved onchain: Base: Practical Innovator!")

	require.NoError(t, err)
	require.Len(t, opener.channels, 1)
	ch := opener.channels[0]
	assert.Equal(t, []string{"l2match.messages:topic"}, ch.declared)
	require.Len(t, ch.published, 1)
	assert.Equal(t, DefaultExchange, ch.published[0].exchange)
	assert.Equal(t, RoutingKey(bob), ch.published[0].key)
	assert.Equal(t, "Result saved onchain: Base: Practical Innovator!", string(ch.published[0].msg.Body))
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", ch.published[0].msg.Headers["from"])
}

func TestSend_ReusesChannelPerSender(t *testing.T) {
	opener := &countingOpener{}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)

	require.NoError(t, m.Send(context.Background(), alice, bob, "one"))
	require.NoError(t, m.Send(context.Background(), alice, bob, "two"))
	require.NoError(t, m.Send(context.Background(), bob, alice, "three"))

	require.Len(t, opener.channels, 2)
	assert.Len(t, opener.channels[0].published, 2)
	assert.Len(t, opener.channels[1].published, 1)
}

func TestSend_OpenError(t *testing.T) {
	opener := &countingOpener{err: errors.New("connection closed")}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)

	err := m.Send(context.Background(), alice, bob, "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}

func TestSend_DeclareErrorClosesChannel(t *testing.T) {
	opener := &countingOpener{next: func() *fakeChannel {
		return &fakeChannel{declareErr: errors.New("access refused")}
	}}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)

	err := m.Send(context.Background(), alice, bob, "x")

	require.Error(t, err)
	assert.True(t, opener.channels[0].closed)
	assert.Zero(t, m.channels.Len())
}

func TestSend_PublishErrorDropsChannel(t *testing.T) {
	failing := true
	opener := &countingOpener{next: func() *fakeChannel {
		if failing {
			failing = false
			return &fakeChannel{publishErr: errors.New("channel closed")}
		}
		return &fakeChannel{}
	}}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)

	require.Error(t, m.Send(context.Background(), alice, bob, "x"))
	require.NoError(t, m.Send(context.Background(), alice, bob, "y"))

	require.Len(t, opener.channels, 2)
	assert.True(t, opener.channels[0].closed)
	assert.Len(t, opener.channels[1].published, 1)
}

func TestClose_ClosesChannels(t *testing.T) {
	opener := &countingOpener{}
	m := newTestMessenger(t, DefaultMaxChannels, opener.open)
	require.NoError(t, m.Send(context.Background(), alice, bob, "x"))

	require.NoError(t, m.Close())

	assert.True(t, opener.channels[0].closed)
	assert.Zero(t, m.channels.Len())
}

// region Channel cache

func TestSend_OldestChannelClosedAtCapacity(t *testing.T) {
	opener := &countingOpener{}
	m := newTestMessenger(t, 2, opener.open)
	carol := "0x1230000000000000000000000000000000000003"

	require.NoError(t, m.Send(context.Background(), alice, bob, "one"))
	require.NoError(t, m.Send(context.Background(), bob, alice, "two"))
	require.NoError(t, m.Send(context.Background(), alice, bob, "three"))
	require.NoError(t, m.Send(context.Background(), carol, alice, "four"))

	require.Len(t, opener.channels, 3)
	assert.False(t, opener.channels[0].closed)
	assert.True(t, opener.channels[1].closed)
	assert.False(t, opener.channels[2].closed)
	assert.Equal(t, 2, m.channels.Len())

	require.NoError(t, m.Send(context.Background(), bob, alice, "five"))
	require.Len(t, opener.channels, 4)
	assert.True(t, opener.channels[0].closed)
	assert.Len(t, opener.channels[3].published, 1)
}

func TestSend_ManySendersStayBounded(t *testing.T) {
	opener := &countingOpener{}
	m := newTestMessenger(t, 8, opener.open)

	for i := 0; i < 100; i++ {
		from := fmt.Sprintf("0x%040x", i)
		require.NoError(t, m.Send(context.Background(), from, bob, "x"))
	}

	assert.Equal(t, 8, m.channels.Len())
	open := 0
	for _, ch := range opener.channels {
		if !ch.closed {
			open++
		}
	}
	assert.Equal(t, 8, open)
}

func TestNewMessenger_InvalidSize(t *testing.T) {
	_, err := newMessenger(DefaultExchange, 0, (&countingOpener{}).open)

	assert.Error(t, err)
}

// endregion

func TestNewAMQPMessenger_NotConfigured(t *testing.T) {
	_, err := NewAMQPMessenger("", "")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

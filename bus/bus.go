// Package bus is the in-process pub/sub that carries keyboard frames and
// status between services. Topics are token paths; subscriptions may use
// "+" (one level) and "#" (zero or more trailing levels). Retained messages
// are replayed to every later matching subscriber.
package bus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	SingleWild = "+"
	MultiWild  = "#"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a sequence of comparable tokens (strings or integers).
type Topic []any

// T builds a topic and panics on a token that cannot key a map.
func T(tokens ...any) Topic {
	for _, tok := range tokens {
		switch tok.(type) {
		case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		default:
			panic(fmt.Sprintf("bus: invalid topic token %T", tok))
		}
	}
	return Topic(tokens)
}

// ParseTopic splits a slash-separated path into string tokens.
func ParseTopic(path string) Topic {
	path = strings.Trim(path, "/")
	if path == "" {
		return Topic{}
	}
	parts := strings.Split(path, "/")
	t := make(Topic, len(parts))
	for i, p := range parts {
		t[i] = p
	}
	return t
}

func (t Topic) String() string {
	var sb strings.Builder
	for i, tok := range t {
		if i > 0 {
			sb.WriteByte('/')
		}
		switch v := tok.(type) {
		case string:
			sb.WriteString(v)
		case int:
			sb.WriteString(strconv.Itoa(v))
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}

// Append returns a new topic with extra tokens.
func (t Topic) Append(tokens ...any) Topic {
	out := make(Topic, 0, len(t)+len(tokens))
	out = append(out, t...)
	return append(out, T(tokens...)...)
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks: a full queue drops its oldest message.
func (s *Subscription) deliver(msg *Message) {
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// -----------------------------------------------------------------------------
// Trie
// -----------------------------------------------------------------------------

type node struct {
	children map[any]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(tok any, create bool) *node {
	if c, ok := n.children[tok]; ok {
		return c
	}
	if !create {
		return nil
	}
	if n.children == nil {
		n.children = make(map[any]*node)
	}
	c := &node{}
	n.children[tok] = c
	return c
}

func (n *node) empty() bool {
	return len(n.subs) == 0 && len(n.children) == 0 && n.retained == nil
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.RWMutex
	subs     *node // subscription patterns
	retained *node // concrete topics holding a retained message
	qLen     int
	replySeq atomic.Uint32
}

// NewBus creates a bus whose subscriptions buffer queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{subs: &node{}, retained: &node{}, qLen: queueLen}
}

// NewMessage builds a message. Tokens are validated as by T.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: T(topic...), Payload: payload, Retained: retained}
}

// Publish delivers msg to every matching subscription and updates the
// retained store. A retained message with a nil payload clears the topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.Retained {
		b.storeRetained(msg)
	}
	var matched []*Subscription
	collect(b.subs, msg.Topic, 0, &matched)
	for _, s := range matched {
		s.deliver(msg)
	}
}

// collect gathers subscriptions whose pattern matches topic[i:].
func collect(n *node, topic Topic, i int, out *[]*Subscription) {
	if h := n.child(MultiWild, false); h != nil {
		*out = append(*out, h.subs...)
	}
	if i == len(topic) {
		*out = append(*out, n.subs...)
		return
	}
	if c := n.child(topic[i], false); c != nil {
		collect(c, topic, i+1, out)
	}
	if topic[i] != SingleWild {
		if c := n.child(SingleWild, false); c != nil {
			collect(c, topic, i+1, out)
		}
	}
}

func (b *Bus) storeRetained(msg *Message) {
	if msg.Payload != nil {
		n := b.retained
		for _, tok := range msg.Topic {
			n = n.child(tok, true)
		}
		n.retained = msg
		return
	}
	// clear and prune
	n := b.retained
	path := make([]*node, 0, len(msg.Topic))
	for _, tok := range msg.Topic {
		path = append(path, n)
		if n = n.child(tok, false); n == nil {
			return
		}
	}
	n.retained = nil
	for i := len(msg.Topic) - 1; i >= 0; i-- {
		c := path[i].children[msg.Topic[i]]
		if !c.empty() {
			break
		}
		delete(path[i].children, msg.Topic[i])
	}
}

// replay delivers retained messages matching pattern[i:] below n.
func replay(n *node, pattern Topic, i int, sub *Subscription) {
	if i == len(pattern) {
		if n.retained != nil {
			sub.deliver(n.retained)
		}
		return
	}
	switch pattern[i] {
	case MultiWild:
		replayAll(n, sub)
	case SingleWild:
		for _, c := range n.children {
			replay(c, pattern, i+1, sub)
		}
	default:
		if c := n.child(pattern[i], false); c != nil {
			replay(c, pattern, i+1, sub)
		}
	}
}

func replayAll(n *node, sub *Subscription) {
	if n.retained != nil {
		sub.deliver(n.retained)
	}
	for _, c := range n.children {
		replayAll(c, sub)
	}
}

func (b *Bus) subscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.subs
	for _, tok := range sub.topic {
		n = n.child(tok, true)
	}
	n.subs = append(n.subs, sub)
	replay(b.retained, sub.topic, 0, sub)
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.subs
	path := make([]*node, 0, len(sub.topic))
	for _, tok := range sub.topic {
		path = append(path, n)
		if n = n.child(tok, false); n == nil {
			return
		}
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	for i := len(sub.topic) - 1; i >= 0; i-- {
		c := path[i].children[sub.topic[i]]
		if !c.empty() {
			break
		}
		delete(path[i].children, sub.topic[i])
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

// Connection owns a set of subscriptions on behalf of one service.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

// NewConnection creates a connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers a subscription owned by this connection. Matching
// retained messages are queued before Subscribe returns.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: T(topic...),
		ch:    make(chan *Message, c.bus.qLen),
		conn:  c,
	}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.subscribe(sub)
	return sub
}

// Unsubscribe removes sub and closes its channel. It is a no-op for a
// subscription this connection does not own.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.unsubscribe(sub)
	close(sub.ch)
}

// Disconnect closes every subscription of this connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}

// -----------------------------------------------------------------------------
// Request / Reply
// -----------------------------------------------------------------------------

var ErrNoReply = errors.New("bus: no reply")

// Request assigns msg a private reply topic (unless it has one), subscribes
// to it and publishes msg. The caller owns the returned subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	if len(msg.ReplyTo) == 0 {
		msg.ReplyTo = T("_reply", c.id, int(c.bus.replySeq.Add(1)))
	}
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait publishes msg and waits for the first reply or ctx.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case m, ok := <-sub.Channel():
		if !ok {
			return nil, ErrNoReply
		}
		return m, nil
	}
}

// Reply answers req on its ReplyTo topic. Requests without one are ignored.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if len(req.ReplyTo) == 0 {
		return
	}
	c.Publish(c.NewMessage(req.ReplyTo, payload, retained))
}

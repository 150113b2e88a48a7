package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flushWait    = 2 * time.Second
	pollInterval = 5 * time.Millisecond
)

type stubChat struct {
	events []Event
	err    error
	calls  []string
}

func (s *stubChat) HandleChatMessage(_ context.Context, roomID, userID uint, message string) ([]Event, error) {
	s.calls = append(s.calls, message)
	return s.events, s.err
}

type stubResponses struct {
	err     error
	quizIDs []uint
	answers []string
}

func (s *stubResponses) HandleQuizResponse(_ context.Context, roomID, userID, quizID uint, selectedAnswer string) error {
	s.quizIDs = append(s.quizIDs, quizID)
	s.answers = append(s.answers, selectedAnswer)
	return s.err
}

func newTestHub() (*Hub, *stubChat, *stubResponses) {
	chat := &stubChat{}
	responses := &stubResponses{}
	return NewHub(chat, responses), chat, responses
}

func testClient(roomID, userID uint, buffer int) *Client {
	return &Client{roomID: roomID, userID: userID, send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.send:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		return decoded
	default:
		t.Fatal("no event in client send buffer")
		return nil
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h, _, _ := newTestHub()
	a := testClient(1, 10, 4)
	b := testClient(1, 11, 4)
	other := testClient(2, 12, 4)

	h.Subscribe(1, a)
	h.Subscribe(1, b)
	h.Subscribe(2, other)

	h.Publish(1, NewRoomNotificationEvent("hello", ""))

	for _, c := range []*Client{a, b} {
		decoded := receive(t, c)
		assert.Equal(t, EventRoomNotification, decoded["type"])
		assert.Equal(t, "hello", decoded["message"])
	}
	assert.Empty(t, other.send)
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	h, _, _ := newTestHub()
	slow := testClient(1, 10, 1)
	fast := testClient(1, 11, 4)

	h.Subscribe(1, slow)
	h.Subscribe(1, fast)

	h.Publish(1, NewRoomNotificationEvent("first", ""))
	h.Publish(1, NewRoomNotificationEvent("second", ""))

	assert.Len(t, slow.send, 1)
	assert.Len(t, fast.send, 2)
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	h, _, _ := newTestHub()
	c := testClient(1, 10, 4)

	h.Subscribe(1, c)
	require.Equal(t, 1, h.SubscriberCount(1))

	h.Unsubscribe(1, c)
	assert.Equal(t, 0, h.SubscriberCount(1))

	// The empty group is removed and a repeat call changes nothing.
	h.Unsubscribe(1, c)
	assert.Equal(t, 0, h.SubscriberCount(1))
}

func TestHub_PublishToEmptyRoomIsNoop(t *testing.T) {
	h, _, _ := newTestHub()
	h.Publish(99, NewRoomNotificationEvent("nobody home", ""))
}

func TestHub_InboundChatFansOutHandlerEvents(t *testing.T) {
	h, chat, _ := newTestHub()
	chat.events = []Event{
		ChatMessageEvent{Type: EventChatMessage, Message: "hi", Username: "Anika"},
		ChatMessageEvent{Type: EventChatMessage, Message: "reply", Username: "AI", IsAIResponse: true},
	}

	sender := testClient(1, 10, 4)
	listener := testClient(1, 11, 4)
	h.Subscribe(1, sender)
	h.Subscribe(1, listener)

	raw, err := json.Marshal(map[string]interface{}{"type": InboundChatMessage, "message": "hi"})
	require.NoError(t, err)
	h.handleInbound(hubMessage{kind: "inbound", roomID: 1, userID: 10, client: sender, rawData: raw})

	assert.Equal(t, []string{"hi"}, chat.calls)
	for _, c := range []*Client{sender, listener} {
		first := receive(t, c)
		assert.Equal(t, "hi", first["message"])
		second := receive(t, c)
		assert.Equal(t, "reply", second["message"])
		assert.Equal(t, true, second["is_ai_response"])
	}
}

func TestHub_InboundChatErrorGoesOnlyToSender(t *testing.T) {
	h, chat, _ := newTestHub()
	chat.err = assert.AnError

	sender := testClient(1, 10, 4)
	listener := testClient(1, 11, 4)
	h.Subscribe(1, sender)
	h.Subscribe(1, listener)

	raw, err := json.Marshal(map[string]interface{}{"type": InboundChatMessage, "message": "hi"})
	require.NoError(t, err)
	h.handleInbound(hubMessage{kind: "inbound", roomID: 1, userID: 10, client: sender, rawData: raw})

	decoded := receive(t, sender)
	assert.Equal(t, EventError, decoded["type"])
	assert.Empty(t, listener.send)
}

func TestHub_InboundQuizResponse(t *testing.T) {
	h, _, responses := newTestHub()
	sender := testClient(1, 10, 4)
	h.Subscribe(1, sender)

	raw, err := json.Marshal(map[string]interface{}{"type": InboundQuizResponse, "quiz_id": 7, "selected_answer": "B"})
	require.NoError(t, err)
	h.handleInbound(hubMessage{kind: "inbound", roomID: 1, userID: 10, client: sender, rawData: raw})

	assert.Equal(t, []uint{7}, responses.quizIDs)
	assert.Equal(t, []string{"B"}, responses.answers)
	assert.Empty(t, sender.send)
}

func TestHub_MalformedInboundYieldsErrorEvent(t *testing.T) {
	h, _, _ := newTestHub()
	sender := testClient(1, 10, 4)
	h.Subscribe(1, sender)

	h.handleInbound(hubMessage{kind: "inbound", roomID: 1, userID: 10, client: sender, rawData: []byte("{not json")})

	decoded := receive(t, sender)
	assert.Equal(t, EventError, decoded["type"])
	assert.Equal(t, "Invalid message format", decoded["message"])
}

func TestHub_UnsubscribeClosesSendWithBufferedEvents(t *testing.T) {
	h, _, _ := newTestHub()
	c := testClient(1, 10, 4)

	h.Subscribe(1, c)
	h.Publish(1, NewRoomNotificationEvent("pending", ""))

	h.Unsubscribe(1, c)

	// The buffered event is still readable, then the channel reports
	// closed so the write pump can exit.
	_, ok := <-c.send
	assert.True(t, ok)
	_, ok = <-c.send
	assert.False(t, ok)
}

func TestHub_QueueAfterStopIsDropped(t *testing.T) {
	h, _, _ := newTestHub()
	c := testClient(1, 10, 4)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	require.True(t, h.QueueRegister(c))
	assert.Eventually(t, func() bool { return h.SubscriberCount(1) == 1 }, flushWait, pollInterval)

	h.Stop()
	<-done

	// A client disconnecting or sending after shutdown must be dropped,
	// not crash the process.
	raw, err := json.Marshal(map[string]interface{}{"type": InboundChatMessage, "message": "late"})
	require.NoError(t, err)
	assert.False(t, h.queue(hubMessage{kind: "inbound", roomID: 1, userID: 10, client: c, rawData: raw}))
	assert.False(t, h.queue(hubMessage{kind: "unregister", roomID: 1, client: c}))
	assert.False(t, h.QueueRegister(c))

	// Repeat stops are no-ops.
	h.Stop()
}

func TestHub_QueueRegisterThroughRunLoop(t *testing.T) {
	h, _, _ := newTestHub()
	c := testClient(3, 10, 1)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	require.True(t, h.QueueRegister(c))
	h.Publish(3, NewRoomNotificationEvent("ping", ""))

	// Registration races the publish; wait for the loop to drain.
	assert.Eventually(t, func() bool { return h.SubscriberCount(3) == 1 }, flushWait, pollInterval)

	h.Stop()
	<-done
}

package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/linkup-social/linkup-backend/internal/domain"
)

type fakeFriendChecker struct {
	areFriends bool
	err        error
	calls      int
}

func (f *fakeFriendChecker) AreFriends(userA, userB uint) (bool, error) {
	f.calls++
	return f.areFriends, f.err
}

type fakeMessageSaver struct {
	saved []domain.Message
	err   error
}

func (f *fakeMessageSaver) SaveMessage(senderID, receiverID uint, content, imageURL string) (*domain.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	msg := domain.Message{
		ID:         uint(len(f.saved) + 1),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ImageURL:   imageURL,
		CreatedAt:  time.Now(),
	}
	f.saved = append(f.saved, msg)
	return &msg, nil
}

func newTestClient(userID uint) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		send:   make(chan []byte, 64),
	}
}

type receivedEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func recvEvent(t *testing.T, c *Client) receivedEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var ev receivedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("failed to decode queued event: %v", err)
		}
		return ev
	default:
		t.Fatal("expected a queued event, got none")
		return receivedEvent{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("expected no queued event, got %s", data)
	default:
	}
}

func newTestGateway(friends *fakeFriendChecker, chat *fakeMessageSaver) (*Gateway, *Hub) {
	hub := NewHub(NewMemoryRegistry(), nil)
	return NewGateway(hub, friends, chat), hub
}

func TestPrivateMessageRejectedWhenNotFriends(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: false}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	g.HandleConnect(sender)

	g.HandlePrivateMessage(sender, PrivateMessagePayload{
		FromUserID: 1,
		ToUserID:   2,
		Message:    "hello",
	})

	ev := recvEvent(t, sender)
	if ev.Type != EventError {
		t.Errorf("event type = %q; want %q", ev.Type, EventError)
	}
	if len(chat.saved) != 0 {
		t.Errorf("unauthorized message was persisted: %d saved", len(chat.saved))
	}
}

func TestPrivateMessageFriendCheckError(t *testing.T) {
	friends := &fakeFriendChecker{err: errors.New("db down")}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	g.HandleConnect(sender)

	g.HandlePrivateMessage(sender, PrivateMessagePayload{FromUserID: 1, ToUserID: 2, Message: "hi"})

	ev := recvEvent(t, sender)
	if ev.Type != EventError {
		t.Errorf("event type = %q; want %q", ev.Type, EventError)
	}
	if len(chat.saved) != 0 {
		t.Error("message must not be persisted when the friendship check fails")
	}
}

func TestPrivateMessageSenderIdentityMismatch(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	g.HandleConnect(sender)

	g.HandlePrivateMessage(sender, PrivateMessagePayload{
		FromUserID: 99, // not the connection's user
		ToUserID:   2,
		Message:    "spoofed",
	})

	ev := recvEvent(t, sender)
	if ev.Type != EventError {
		t.Errorf("event type = %q; want %q", ev.Type, EventError)
	}
	if friends.calls != 0 {
		t.Error("spoofed sender must be rejected before the friendship check")
	}
	if len(chat.saved) != 0 {
		t.Error("spoofed message must not be persisted")
	}
}

func TestPrivateMessageDeliveredToOnlineRecipient(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	recipient := newTestClient(2)
	g.HandleConnect(sender)
	g.HandleConnect(recipient)

	// Drain the join broadcast the sender received for the recipient.
	recvEvent(t, sender)

	g.HandlePrivateMessage(sender, PrivateMessagePayload{
		FromUserID: 1,
		ToUserID:   2,
		Message:    "hello friend",
		ImageURL:   "https://cdn.example.com/pic.png",
	})

	if len(chat.saved) != 1 {
		t.Fatalf("saved %d messages; want 1", len(chat.saved))
	}

	got := recvEvent(t, recipient)
	if got.Type != EventPrivateMessage {
		t.Errorf("recipient event type = %q; want %q", got.Type, EventPrivateMessage)
	}
	var delivery MessageDeliveryPayload
	if err := json.Unmarshal(got.Payload, &delivery); err != nil {
		t.Fatalf("failed to decode delivery payload: %v", err)
	}
	if delivery.From != 1 || delivery.To != 2 || delivery.Message != "hello friend" {
		t.Errorf("unexpected delivery payload: %+v", delivery)
	}
	if delivery.Delivered != nil {
		t.Error("recipient copy must not carry the delivered flag")
	}

	ack := recvEvent(t, sender)
	if ack.Type != EventMessageSent {
		t.Errorf("sender ack type = %q; want %q", ack.Type, EventMessageSent)
	}
	var ackPayload MessageDeliveryPayload
	if err := json.Unmarshal(ack.Payload, &ackPayload); err != nil {
		t.Fatalf("failed to decode ack payload: %v", err)
	}
	if ackPayload.Delivered == nil || !*ackPayload.Delivered {
		t.Error("ack for an online recipient must report delivered=true")
	}
}

func TestPrivateMessageStoredWhenRecipientOffline(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	g.HandleConnect(sender)

	g.HandlePrivateMessage(sender, PrivateMessagePayload{
		FromUserID: 1,
		ToUserID:   2,
		Message:    "see you later",
	})

	if len(chat.saved) != 1 {
		t.Fatalf("saved %d messages; want 1 even with recipient offline", len(chat.saved))
	}

	ack := recvEvent(t, sender)
	if ack.Type != EventMessageSent {
		t.Errorf("sender ack type = %q; want %q", ack.Type, EventMessageSent)
	}
	var ackPayload MessageDeliveryPayload
	if err := json.Unmarshal(ack.Payload, &ackPayload); err != nil {
		t.Fatalf("failed to decode ack payload: %v", err)
	}
	if ackPayload.Delivered == nil || *ackPayload.Delivered {
		t.Error("ack for an offline recipient must report delivered=false")
	}
}

func TestPrivateMessagePersistFailure(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{err: errors.New("insert failed")}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	recipient := newTestClient(2)
	g.HandleConnect(sender)
	g.HandleConnect(recipient)
	recvEvent(t, sender) // join broadcast

	g.HandlePrivateMessage(sender, PrivateMessagePayload{FromUserID: 1, ToUserID: 2, Message: "hi"})

	ev := recvEvent(t, sender)
	if ev.Type != EventError {
		t.Errorf("sender event type = %q; want %q", ev.Type, EventError)
	}
	// Nothing may reach the recipient if persistence failed.
	assertNoEvent(t, recipient)
}

func TestDisconnectAfterReconnectKeepsPresence(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{}
	g, hub := newTestGateway(friends, chat)

	first := newTestClient(7)
	g.HandleConnect(first)
	second := newTestClient(7)
	g.HandleConnect(second)

	// The first connection's disconnect arrives after the reconnect.
	g.HandleDisconnect(first)

	connID, ok := hub.Presence().Lookup(7)
	if !ok || connID != second.id {
		t.Errorf("presence after stale disconnect = %q, %v; want %q, true", connID, ok, second.id)
	}
}

func TestDispatchMalformedFrame(t *testing.T) {
	g, _ := newTestGateway(&fakeFriendChecker{}, &fakeMessageSaver{})

	c := newTestClient(1)
	g.HandleConnect(c)

	g.Dispatch(c, []byte("{not json"))

	ev := recvEvent(t, c)
	if ev.Type != EventError {
		t.Errorf("event type = %q; want %q", ev.Type, EventError)
	}
}

func TestDispatchUnknownEventType(t *testing.T) {
	g, _ := newTestGateway(&fakeFriendChecker{}, &fakeMessageSaver{})

	c := newTestClient(1)
	g.HandleConnect(c)

	g.Dispatch(c, []byte(`{"type":"telepathy","payload":{}}`))

	ev := recvEvent(t, c)
	if ev.Type != EventError {
		t.Errorf("event type = %q; want %q", ev.Type, EventError)
	}
}

func TestDispatchPrivateMessageFrame(t *testing.T) {
	friends := &fakeFriendChecker{areFriends: true}
	chat := &fakeMessageSaver{}
	g, _ := newTestGateway(friends, chat)

	sender := newTestClient(1)
	g.HandleConnect(sender)

	frame := []byte(`{"type":"privateMessage","payload":{"fromUserId":1,"toUserId":2,"message":"via dispatch"}}`)
	g.Dispatch(sender, frame)

	if len(chat.saved) != 1 {
		t.Fatalf("saved %d messages; want 1", len(chat.saved))
	}
	if chat.saved[0].Content != "via dispatch" {
		t.Errorf("saved content = %q; want %q", chat.saved[0].Content, "via dispatch")
	}
}

func TestRoomJoinAndGroupMessage(t *testing.T) {
	g, _ := newTestGateway(&fakeFriendChecker{}, &fakeMessageSaver{})

	a := newTestClient(0)
	b := newTestClient(0)
	g.HandleConnect(a)
	g.HandleConnect(b)

	g.HandleJoinRoom(a, "lobby")
	recvEvent(t, a) // roomInfo for a's own join
	g.HandleJoinRoom(b, "lobby")
	recvEvent(t, a) // roomInfo for b's join
	recvEvent(t, b)

	g.HandleGroupMessage(a, RoomPayload{Room: "lobby", Message: "hi room"})

	for _, c := range []*Client{a, b} {
		ev := recvEvent(t, c)
		if ev.Type != EventGroupMessage {
			t.Errorf("event type = %q; want %q", ev.Type, EventGroupMessage)
		}
		var payload GroupMessagePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			t.Fatalf("failed to decode group payload: %v", err)
		}
		if payload.Message != "hi room" || payload.From != a.id {
			t.Errorf("unexpected group payload: %+v", payload)
		}
	}
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	g, _ := newTestGateway(&fakeFriendChecker{}, &fakeMessageSaver{})

	a := newTestClient(0)
	b := newTestClient(0)
	g.HandleConnect(a)
	g.HandleConnect(b)

	g.HandleJoinRoom(a, "lobby")
	g.HandleJoinRoom(b, "lobby")
	g.HandleLeaveRoom(b, "lobby")

	// Drain everything queued so far.
	for len(a.send) > 0 {
		<-a.send
	}
	for len(b.send) > 0 {
		<-b.send
	}

	g.HandleGroupMessage(a, RoomPayload{Room: "lobby", Message: "after leave"})

	recvEvent(t, a)
	assertNoEvent(t, b)
}

package monitor

import "testing"

func TestHubPublishFansOutToEveryClient(t *testing.T) {
	h := NewHub()
	a := h.Register(4)
	b := h.Register(4)

	h.Publish([]byte("frame"))

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.Send():
			if string(got) != "frame" {
				t.Fatalf("Send() = %q, want %q", got, "frame")
			}
		default:
			t.Fatalf("client mailbox empty after Publish")
		}
	}
}

func TestHubPublishDropsClientWithFullMailbox(t *testing.T) {
	h := NewHub()
	c := h.Register(1)

	h.Publish([]byte("first"))
	h.Publish([]byte("second"))

	if h.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0 after a full mailbox is dropped", h.ClientCount())
	}
	if _, ok := <-c.Send(); !ok {
		t.Fatalf("Send() channel not closed after the client was dropped")
	}
}

func TestHubUnregisterRemovesClientAndClosesMailbox(t *testing.T) {
	h := NewHub()
	c := h.Register(2)

	h.Unregister(c)

	if h.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0 after Unregister", h.ClientCount())
	}
	if _, ok := <-c.Send(); ok {
		t.Fatalf("Send() channel still open after Unregister")
	}
}

func TestHubUnregisterUnknownClientIsSafe(t *testing.T) {
	h := NewHub()
	c := &Client{send: make(chan []byte, 1)}

	h.Unregister(c)

	if h.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", h.ClientCount())
	}
}

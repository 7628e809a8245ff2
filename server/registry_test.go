package server

import (
	"testing"

	"symbiosis/protocol"
)

type closingPeer struct {
	fakePeer
	closed bool
}

func (p *closingPeer) Close() error {
	p.closed = true
	return nil
}

func TestRegistryBroadcast(t *testing.T) {
	r := NewRegistry()
	a := &fakePeer{id: "a"}
	b := &fakePeer{id: "b"}
	r.Add(a)
	r.Add(b)
	r.Add(a)
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}

	r.Broadcast(&protocol.Chat{From: "x", Text: "hi"})
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("a=%v b=%v", a.kinds(), b.kinds())
	}

	r.Remove(a)
	r.Remove(&fakePeer{id: "unknown"})
	r.Broadcast(&protocol.Chat{From: "x", Text: "again"})
	if len(a.got) != 1 || len(b.got) != 2 {
		t.Fatal("removed peer must not receive broadcasts")
	}
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()
	c := &closingPeer{fakePeer: fakePeer{id: "c"}}
	r.Add(c)
	r.Add(&fakePeer{id: "plain"})
	r.CloseAll()
	if !c.closed {
		t.Fatal("closer was not closed")
	}
}

package player

import (
	"net"
	"testing"
)

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	server, client := net.Pipe()
	p := New(server)
	t.Cleanup(func() {
		_ = p.Close()
		_ = client.Close()
	})
	return p
}

func TestPlayer_AnonymousByDefault(t *testing.T) {
	p := newTestPlayer(t)

	if username, ok := p.Username(); ok {
		t.Errorf("expected anonymous player, got username %q", username)
	}

	p.SetIdentity(&Identity{Username: "alice"})
	username, ok := p.Username()
	if !ok || username != "alice" {
		t.Errorf("Username() want = (alice, true), got = (%s, %v)", username, ok)
	}
}

func TestPlayer_EarnedAccounting(t *testing.T) {
	p := newTestPlayer(t)

	p.AddEarned(10)
	p.AddEarned(0)
	p.AddEarned(-5)
	p.AddEarned(15)
	if p.Earned() != 25 {
		t.Errorf("Earned() want = 25, got = %d", p.Earned())
	}

	p.ResetEarned()
	if p.Earned() != 0 {
		t.Errorf("Earned() after reset want = 0, got = %d", p.Earned())
	}
}

package game

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/termninja/termninja/internal/player"
)

func TestSoloManager_RunsOneSessionPerPlayer(t *testing.T) {
	var sessions []*player.Player
	m := NewSoloManager("Trivia", "Trivia", func(p *player.Player) *Controller {
		sessions = append(sessions, p)
		return &Controller{
			FriendlyName: "Trivia",
			Players:      []*player.Player{p},
			Loop:         func(ctx context.Context) error { return nil },
		}
	})

	if m.Name() != "Trivia" || m.FriendlyName() != "Trivia" {
		t.Fatalf("unexpected names: %s / %s", m.Name(), m.FriendlyName())
	}

	players := testPlayers(t, 2)
	for _, p := range players {
		if err := m.PlayerConnected(context.Background(), p); err != nil {
			t.Fatalf("PlayerConnected() returned error: %v", err)
		}
	}

	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if m.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions() after completion want = 0, got = %d", m.ActiveSessions())
	}
}

func TestDuelManager_PairsTwoPlayers(t *testing.T) {
	paired := make(chan [2]*player.Player, 1)
	m := NewDuelManager("Trivia Duel", "Trivia Duel", func(p1, p2 *player.Player) *Controller {
		paired <- [2]*player.Player{p1, p2}
		return &Controller{
			FriendlyName: "Trivia Duel",
			Players:      []*player.Player{p1, p2},
			Loop:         func(ctx context.Context) error { return nil },
		}
	})
	m.waitPoll = 10 * time.Millisecond

	players := testPlayers(t, 2)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.PlayerConnected(context.Background(), players[0])
	}()

	// Give the first player time to land in the waiting slot.
	time.Sleep(50 * time.Millisecond)

	if err := m.PlayerConnected(context.Background(), players[1]); err != nil {
		t.Fatalf("PlayerConnected() returned error: %v", err)
	}

	select {
	case pair := <-paired:
		if pair[0] != players[0] || pair[1] != players[1] {
			t.Error("session started with the wrong pairing")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the pair to match")
	}

	select {
	case err := <-firstDone:
		if err != nil {
			t.Errorf("waiting player's intake returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first player's intake to return")
	}
}

func TestDuelManager_FirstIntakeBlocksUntilSessionEnds(t *testing.T) {
	release := make(chan struct{})
	m := NewDuelManager("Trivia Duel", "Trivia Duel", func(p1, p2 *player.Player) *Controller {
		return &Controller{
			FriendlyName: "Trivia Duel",
			Players:      []*player.Player{p1, p2},
			Loop: func(ctx context.Context) error {
				<-release
				return nil
			},
		}
	})
	m.waitPoll = 10 * time.Millisecond

	players := testPlayers(t, 2)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.PlayerConnected(context.Background(), players[0])
	}()
	time.Sleep(50 * time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- m.PlayerConnected(context.Background(), players[1])
	}()

	// While the session is live, the first player's connection still
	// belongs to it: their intake must not hand control back yet.
	select {
	case err := <-firstDone:
		t.Fatalf("waiting player's intake returned mid-session (err %v)", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	for _, done := range []chan error{firstDone, secondDone} {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("intake returned error: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("intake did not return after the session ended")
		}
	}
}

func TestDuelManager_DisconnectWhileWaitingClearsSlot(t *testing.T) {
	m := NewDuelManager("Trivia Duel", "Trivia Duel", func(p1, p2 *player.Player) *Controller {
		t.Error("no session should start")
		return nil
	})
	m.waitPoll = 10 * time.Millisecond

	server, client := net.Pipe()
	p := player.New(server)
	go func() { _, _ = io.Copy(io.Discard, client) }()

	done := make(chan struct{})
	go func() {
		_ = m.PlayerConnected(context.Background(), p)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	_ = client.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("intake did not return after the waiting player disconnected")
	}

	m.mutex.Lock()
	slot := m.slot
	m.mutex.Unlock()
	if slot != nil {
		t.Error("expected the waiting slot to be cleared")
	}
}

func TestDuelManager_ShutdownReleasesWaitingPlayer(t *testing.T) {
	m := NewDuelManager("Trivia Duel", "Trivia Duel", func(p1, p2 *player.Player) *Controller {
		t.Error("no session should start")
		return nil
	})
	m.waitPoll = 10 * time.Millisecond

	players := testPlayers(t, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_ = m.PlayerConnected(ctx, players[0])
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("intake did not return after shutdown")
	}
}

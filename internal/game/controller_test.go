package game

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/termninja/termninja/internal/core/data"
	"github.com/termninja/termninja/internal/player"
)

// recordingStore counts SaveRound invocations and keeps what was saved.
type recordingStore struct {
	mutex  sync.Mutex
	rounds []*data.Round
	err    error
}

func (s *recordingStore) SaveRound(ctx context.Context, round *data.Round) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rounds = append(s.rounds, round)
	return s.err
}

func (s *recordingStore) saved() []*data.Round {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]*data.Round(nil), s.rounds...)
}

func testPlayers(t *testing.T, n int) []*player.Player {
	t.Helper()
	players := make([]*player.Player, n)
	for i := range players {
		server, client := net.Pipe()
		players[i] = player.New(server)
		// Drain everything the session writes so sends never block.
		go func() { _, _ = io.Copy(io.Discard, client) }()
		t.Cleanup(func() {
			_ = client.Close()
		})
	}
	return players
}

func TestController_TeardownOnNormalCompletion(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 2)

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop: func(ctx context.Context) error {
			players[0].AddEarned(50)
			return nil
		},
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}

	rounds := store.saved()
	if len(rounds) != len(players) {
		t.Fatalf("expected %d rounds persisted, got %d", len(players), len(rounds))
	}

	scores := map[int]bool{}
	for _, r := range rounds {
		if r.GameName != "Trivia" {
			t.Errorf("GameName want = Trivia, got = %s", r.GameName)
		}
		scores[r.Score] = true
	}
	if !scores[50] || !scores[0] {
		t.Errorf("expected persisted scores {50, 0}, got: %+v", rounds)
	}

	// Every connection must be closed after teardown.
	for _, p := range players {
		if err := p.Send("x"); !player.IsTransportErr(err) {
			t.Errorf("expected closed connection, Send() returned: %v", err)
		}
	}
}

func TestController_TransportErrorSwallowed(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 1)

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop: func(ctx context.Context) error {
			players[0].AddEarned(30)
			return io.EOF
		},
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("expected transport error to be swallowed, got: %v", err)
	}

	rounds := store.saved()
	if len(rounds) != 1 || rounds[0].Score != 30 {
		t.Fatalf("expected the partial score persisted, got: %+v", rounds)
	}
}

func TestController_OtherErrorsPropagateAfterTeardown(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 1)
	boom := errors.New("boom")

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop:         func(ctx context.Context) error { return boom },
	}

	if err := c.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Start() want = boom, got = %v", err)
	}
	if len(store.saved()) != 1 {
		t.Fatal("teardown must persist even when the loop fails")
	}
}

func TestController_TeardownOnCancellation(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop:         func(ctx context.Context) error { return ctx.Err() },
	}

	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() want = context.Canceled, got = %v", err)
	}
	if len(store.saved()) != 1 {
		t.Fatal("teardown must persist on cancellation")
	}
}

func TestController_StorageFailurePropagates(t *testing.T) {
	storeErr := errors.New("database gone")
	store := &recordingStore{err: storeErr}
	players := testPlayers(t, 1)

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop:         func(ctx context.Context) error { return nil },
	}

	if err := c.Start(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("Start() want = database gone, got = %v", err)
	}

	// The connection-closing half still completed.
	if err := players[0].Send("x"); !player.IsTransportErr(err) {
		t.Errorf("expected closed connection, Send() returned: %v", err)
	}
}

func TestController_ResetsEarnedAtSessionStart(t *testing.T) {
	players := testPlayers(t, 1)
	players[0].AddEarned(99)

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Loop: func(ctx context.Context) error {
			if players[0].Earned() != 0 {
				t.Errorf("Earned() at session start want = 0, got = %d", players[0].Earned())
			}
			return nil
		},
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}
}

func TestController_ResultReporterEnrichesRound(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 1)

	message := "Answered 50.00% (1/2) correctly"
	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Results: staticReporter{
			message:  &message,
			snapshot: []byte(`{"questions":2}`),
		},
		Loop: func(ctx context.Context) error { return nil },
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}

	round := store.saved()[0]
	if round.Message == nil || *round.Message != message {
		t.Errorf("Message want = %q, got = %v", message, round.Message)
	}
	if string(round.Snapshot) != `{"questions":2}` {
		t.Errorf("Snapshot want = %q, got = %q", `{"questions":2}`, round.Snapshot)
	}
}

type staticReporter struct {
	message  *string
	snapshot []byte
}

func (r staticReporter) ResultMessage(p *player.Player) *string { return r.message }
func (r staticReporter) Snapshot(p *player.Player) []byte       { return r.snapshot }

func TestController_AnonymousRoundHasNoUsername(t *testing.T) {
	store := &recordingStore{}
	players := testPlayers(t, 1)

	c := &Controller{
		FriendlyName: "Trivia",
		Players:      players,
		Store:        store,
		Loop:         func(ctx context.Context) error { return nil },
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}

	if round := store.saved()[0]; round.Username != nil {
		t.Errorf("expected nil username, got: %v", *round.Username)
	}
}

func TestController_Broadcast(t *testing.T) {
	server1, client1 := net.Pipe()
	server2, client2 := net.Pipe()
	players := []*player.Player{player.New(server1), player.New(server2)}
	t.Cleanup(func() {
		for _, p := range players {
			_ = p.Close()
		}
		_ = client1.Close()
		_ = client2.Close()
	})

	c := &Controller{Players: players}

	received := make(chan string, 2)
	for _, client := range []net.Conn{client1, client2} {
		go func(conn net.Conn) {
			buf := make([]byte, 64)
			n, _ := conn.Read(buf)
			received <- string(buf[:n])
		}(client)
	}

	if err := c.Broadcast("hello\r\n"); err != nil {
		t.Fatalf("Broadcast() returned error: %v", err)
	}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			if msg != "hello\r\n" {
				t.Errorf("broadcast payload want = %q, got = %q", "hello\r\n", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestController_BroadcastOneDeadPlayerDoesNotBlockOthers(t *testing.T) {
	players := testPlayers(t, 2)
	_ = players[0].Close()

	c := &Controller{Players: players}
	err := c.Broadcast("hello\r\n")
	if !player.IsTransportErr(err) {
		t.Fatalf("expected transport error from the dead player, got: %v", err)
	}
}

// Package game owns the session lifecycle: controllers that run one game
// instance for one or more players, and the managers that hand players to
// them.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termninja/termninja/internal/core/data"
	"github.com/termninja/termninja/internal/core/debug"
	"github.com/termninja/termninja/internal/player"
)

// RoundStore persists one player's completed round. *data.Recorder is the
// production implementation.
type RoundStore interface {
	SaveRound(ctx context.Context, round *data.Round) error
}

// ResultReporter is an optional capability a game can attach to a session to
// enrich the persisted round with a human-readable summary and an opaque
// final-state snapshot. Either method may return nil.
type ResultReporter interface {
	ResultMessage(p *player.Player) *string
	Snapshot(p *player.Player) []byte
}

// Controller runs one game session. It owns the players for the duration of
// the session and guarantees that teardown (closing connections and
// persisting rounds) happens exactly once no matter how the game loop exits.
type Controller struct {
	// FriendlyName is the stable name rounds are recorded under.
	FriendlyName string
	Players      []*player.Player
	// Loop is the game's core logic. Transport failures from any player's
	// stream may be returned directly; they end the session quietly.
	Loop func(ctx context.Context) error
	// Results optionally enriches persisted rounds. Nil is fine.
	Results ResultReporter
	// Store receives one round per player at teardown. Nil skips persistence.
	Store  RoundStore
	Logger *zap.SugaredLogger
	// OnDisconnect runs after the loop exits and before connections close.
	OnDisconnect func()
}

// Start runs the game loop and then tears the session down. Errors meaning
// "the peer went away" are swallowed; anything else the loop returned comes
// back to the caller, after teardown has completed either way.
func (c *Controller) Start(ctx context.Context) (err error) {
	defer func() {
		if c.OnDisconnect != nil {
			c.OnDisconnect()
		}

		teardownErr := c.teardown(ctx)
		if err != nil && player.IsTransportErr(err) {
			err = nil
		}
		if err == nil {
			err = teardownErr
		}
	}()

	for _, p := range c.Players {
		p.ResetEarned()
	}

	return c.Loop(ctx)
}

// teardown closes every player's connection and persists every player's
// round. The two halves run concurrently and a failure in one never blocks
// the other; both complete before teardown returns.
func (c *Controller) teardown(ctx context.Context) error {
	// Rounds must still be recorded when the session is unwinding because
	// of a process-wide shutdown.
	persistCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	closeErrs := make([]error, len(c.Players))
	storeErrs := make([]error, len(c.Players))

	for i, p := range c.Players {
		wg.Add(2)

		go func(i int, p *player.Player) {
			defer wg.Done()
			if err := p.Close(); err != nil && !player.IsTransportErr(err) {
				closeErrs[i] = err
			}
		}(i, p)

		go func(i int, p *player.Player) {
			defer wg.Done()
			storeErrs[i] = c.storeRoundPlayed(persistCtx, p)
		}(i, p)
	}
	wg.Wait()

	return errors.Join(errors.Join(closeErrs...), errors.Join(storeErrs...))
}

// storeRoundPlayed records the fact that this player played this game.
func (c *Controller) storeRoundPlayed(ctx context.Context, p *player.Player) error {
	if c.Store == nil {
		return nil
	}

	round := &data.Round{
		GameName: c.FriendlyName,
		Score:    p.Earned(),
		PlayedAt: time.Now(),
	}
	if username, ok := p.Username(); ok {
		round.Username = &username
	}
	if c.Results != nil {
		round.Message = c.Results.ResultMessage(p)
		round.Snapshot = c.Results.Snapshot(p)
	}

	if err := c.Store.SaveRound(ctx, round); err != nil {
		return err
	}

	debug.RoundsPlayed.WithLabelValues(c.FriendlyName).Inc()
	if c.Logger != nil {
		c.Logger.Debugf("[%s] recorded round for %s (score %d)",
			c.FriendlyName, p.RemoteAddr(), round.Score)
	}
	return nil
}

// Broadcast sends the message to every player in the session concurrently
// and waits for all sends to finish. One slow or broken player never stalls
// or cancels the others; the first failure is reported.
func (c *Controller) Broadcast(msg string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(c.Players))

	for i, p := range c.Players {
		wg.Add(1)
		go func(i int, p *player.Player) {
			defer wg.Done()
			errs[i] = p.Send(msg)
		}(i, p)
	}
	wg.Wait()

	return errors.Join(errs...)
}

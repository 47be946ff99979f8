package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/term"
)

const triviaDuelName = "Trivia Duel"

// NewTriviaDuel returns the two-player trivia manager. Both players answer
// the same shuffled bank, each on their own independent cadence, and the
// higher session score wins.
func NewTriviaDuel(deps Deps) *game.DuelManager {
	return game.NewDuelManager(triviaDuelName, triviaDuelName, func(p1, p2 *player.Player) *game.Controller {
		engines := map[*player.Player]*Engine{}
		for _, p := range []*player.Player{p1, p2} {
			engines[p] = &Engine{
				Player:       p,
				Source:       newTriviaSource(),
				Clock:        deps.Clock,
				PollInterval: deps.PollInterval,
				Logger:       deps.Logger,
			}
		}

		controller := &game.Controller{
			FriendlyName: triviaDuelName,
			Players:      []*player.Player{p1, p2},
			Results:      duelResults{engines: engines},
			Store:        deps.Store,
			Logger:       deps.Logger,
		}

		controller.Loop = func(ctx context.Context) error {
			var wg sync.WaitGroup
			errs := make([]error, len(controller.Players))

			// Each player plays through on their own goroutine so a slow
			// opponent never stalls a fast one.
			for i, p := range controller.Players {
				wg.Add(1)
				go func(i int, p *player.Player) {
					defer wg.Done()
					err := engines[p].Run(ctx)
					if err != nil && player.IsTransportErr(err) {
						// One abandoned stream ends only that player's
						// half of the duel.
						err = nil
					}
					errs[i] = err
				}(i, p)
			}
			wg.Wait()

			_ = controller.Broadcast(duelResultMessage(p1, p2))
			return errors.Join(errs...)
		}

		return controller
	})
}

func duelResultMessage(p1, p2 *player.Player) string {
	verdict := "It's a draw!"
	switch {
	case p1.Earned() > p2.Earned():
		verdict = "Player one wins!"
	case p2.Earned() > p1.Earned():
		verdict = "Player two wins!"
	}
	return fmt.Sprintf(
		"\r\n\r\nFinal score: %d - %d. %s\r\n",
		p1.Earned(), p2.Earned(), term.Heading(verdict),
	)
}

// duelResults reports each player's own engine counters.
type duelResults struct {
	engines map[*player.Player]*Engine
}

func (r duelResults) ResultMessage(p *player.Player) *string {
	engine, ok := r.engines[p]
	if !ok {
		return nil
	}
	return Results{Engine: engine}.ResultMessage(p)
}

func (r duelResults) Snapshot(p *player.Player) []byte { return nil }

package quiz

import (
	"time"

	"go.uber.org/zap"

	"github.com/termninja/termninja/internal/core/clock"
	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
)

// Deps carries the shared wiring every quiz game needs to build sessions.
type Deps struct {
	Store        game.RoundStore
	Logger       *zap.SugaredLogger
	Clock        clock.Clock
	PollInterval time.Duration
}

// newSession assembles the controller for one player playing the given
// source under the given friendly name.
func (d Deps) newSession(friendlyName string, p *player.Player, source Source) *game.Controller {
	engine := &Engine{
		Player:       p,
		Source:       source,
		Clock:        d.Clock,
		PollInterval: d.PollInterval,
		Logger:       d.Logger,
	}
	return &game.Controller{
		FriendlyName: friendlyName,
		Players:      []*player.Player{p},
		Loop:         engine.Run,
		Results:      Results{Engine: engine},
		Store:        d.Store,
		Logger:       d.Logger,
	}
}

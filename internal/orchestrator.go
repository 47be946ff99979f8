// Package internal wires the process together: configuration, logging,
// storage, the game managers, and the accept loop.
package internal

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/termninja/termninja/internal/core"
	"github.com/termninja/termninja/internal/core/clock"
	"github.com/termninja/termninja/internal/core/data"
	"github.com/termninja/termninja/internal/core/debug"
	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/game/quiz"
	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/server"
)

// Orchestrator is the main entrypoint for termninja. It's responsible for
// initializing the shared resources (database and logging), registering the
// games, and running the server until shutdown.
type Orchestrator struct {
	Config *core.Config

	logger *zap.SugaredLogger
	db     *gorm.DB
}

// Start brings the process up and blocks until ctx is cancelled and the
// server has drained. Failures during startup are logged and abort.
func (o *Orchestrator) Start(ctx context.Context) {
	var err error
	// Set up the logger, which is shared by everything below.
	o.logger, err = core.NewLogger(o.Config)
	if err != nil {
		// No logger yet, nowhere better to report this.
		panic(err)
	}

	// Start any debug utilities if we're configured to do so.
	if o.Config.Debugging.Enabled {
		debug.StartUtilities(o.logger,
			o.Config.Debugging.PprofPort,
			o.Config.Debugging.MetricsPort,
		)
	}

	o.db, err = data.Initialize(
		o.Config.Database.Engine,
		o.dataSource(),
		o.Config.Database.LogQueries,
	)
	if err != nil {
		o.logger.Errorf("error connecting to database: %v", err)
		return
	}
	defer func() {
		if err := data.Shutdown(o.db); err != nil {
			o.logger.Errorf("error closing database connection: %v", err)
		}
	}()
	o.logger.Infof("connected to %s database", o.Config.Database.Engine)

	gameServer := server.New(o.Config, o.logger, o.managers(), o.hooks())
	if err := gameServer.Start(ctx); err != nil {
		o.logger.Errorf("server exited with error: %v", err)
	}
}

func (o *Orchestrator) dataSource() string {
	if o.Config.Database.Engine == "sqlite" {
		return o.Config.Database.Filename
	}
	return o.Config.DatabaseURL()
}

// managers returns the game list in menu order. The order is fixed for the
// process lifetime.
func (o *Orchestrator) managers() []game.Manager {
	deps := quiz.Deps{
		Store:        &data.Recorder{DB: o.db},
		Logger:       o.logger,
		Clock:        clock.New(),
		PollInterval: time.Duration(o.Config.PollInterval()) * time.Millisecond,
	}

	return []game.Manager{
		quiz.NewTrivia(deps),
		quiz.NewMathBlitz(deps),
		quiz.NewSubnetRacer(deps, o.Config.Games.SubnetRacerQuestions),
		quiz.NewTriviaDuel(deps),
		game.NewScoreboardManager(data.NewLeaderboard(o.db), o.logger),
	}
}

// hooks installs the default connection callbacks: log arrivals, accept
// everyone, and load the cumulative score for players with a known identity.
func (o *Orchestrator) hooks() server.Hooks {
	return server.Hooks{
		OnPlayerConnected: func(ctx context.Context, p *player.Player) {
			o.logger.Debugf("player connected from %s", p.RemoteAddr())
		},
		OnPlayerAccepted: func(ctx context.Context, p *player.Player) {
			username, ok := p.Username()
			if !ok {
				return
			}
			user, err := data.FindUserByUsername(o.db.WithContext(ctx), username)
			if err != nil {
				o.logger.Errorf("error loading user %s: %v", username, err)
				return
			}
			if user != nil {
				p.SetScore(user.TotalScore)
			}
		},
	}
}

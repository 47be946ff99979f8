package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/termninja/termninja/internal/core/data"
	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/term"
)

// HighScoreSource serves the top rounds for a game, the empty name meaning
// all games.
type HighScoreSource interface {
	HighScores(gameName string) ([]data.Round, error)
}

// ScoreboardManager is the menu entry that shows the high score table and
// ends the connection. It runs no session and stores no round.
type ScoreboardManager struct {
	scores HighScoreSource
	logger *zap.SugaredLogger
}

// NewScoreboardManager returns the high scores menu entry.
func NewScoreboardManager(scores HighScoreSource, logger *zap.SugaredLogger) *ScoreboardManager {
	return &ScoreboardManager{scores: scores, logger: logger}
}

func (m *ScoreboardManager) Name() string         { return "High Scores" }
func (m *ScoreboardManager) FriendlyName() string { return "High Scores" }

func (m *ScoreboardManager) Init(ctx context.Context) error { return nil }

// PlayerConnected renders the board and closes the player.
func (m *ScoreboardManager) PlayerConnected(ctx context.Context, p *player.Player) error {
	defer func() { _ = p.Close() }()

	rounds, err := m.scores.HighScores("")
	if err != nil {
		m.logger.Errorf("error loading high scores: %v", err)
		return p.Send(term.Bad("High scores are unavailable right now.") + "\r\n")
	}

	err = p.Send(renderScoreboard(rounds))
	if player.IsTransportErr(err) {
		return nil
	}
	return err
}

func renderScoreboard(rounds []data.Round) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(term.Heading("   High Scores"))
	b.WriteString("\r\n\r\n")

	if len(rounds) == 0 {
		b.WriteString("  No rounds played yet.\r\n")
		return b.String()
	}

	for i, round := range rounds {
		username := "?"
		if round.Username != nil {
			username = *round.Username
		}
		fmt.Fprintf(&b, "  %2d. %-20s %5d  %s\r\n", i+1, username, round.Score, round.GameName)
	}
	return b.String()
}

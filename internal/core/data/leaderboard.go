package data

import (
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const leaderboardTTL = 30 * time.Second

// Leaderboard serves high score queries through a short-lived cache so a
// popular board does not hammer the database once per connecting player.
type Leaderboard struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewLeaderboard returns a Leaderboard backed by db.
func NewLeaderboard(db *gorm.DB) *Leaderboard {
	return &Leaderboard{
		db:    db,
		cache: cache.New(leaderboardTTL, time.Minute),
	}
}

// HighScores returns the top rounds for the game (all games when empty),
// served from cache when a recent result exists.
func (l *Leaderboard) HighScores(gameName string) ([]Round, error) {
	if cached, ok := l.cache.Get(gameName); ok {
		return cached.([]Round), nil
	}

	rounds, err := ListHighScores(l.db, gameName)
	if err != nil {
		return nil, err
	}

	l.cache.Set(gameName, rounds, cache.DefaultExpiration)
	return rounds, nil
}

// Flush drops every cached board. Intended for tests.
func (l *Leaderboard) Flush() {
	l.cache.Flush()
}

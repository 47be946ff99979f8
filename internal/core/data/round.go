package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// PageSize is the number of rounds returned per page by ListRounds.
const PageSize = 10

// Round records one completed game session for one player. Rounds are
// append-only; nothing updates them after insert.
type Round struct {
	ID uint64 `gorm:"primaryKey"`
	// Friendly name of the game, the stable key games are known by.
	GameName string `gorm:"index; not null"`
	// Username of the player, nil for anonymous sessions.
	Username *string `gorm:"index"`
	Score    int
	PlayedAt time.Time
	// Optional human-readable result summary supplied by the game.
	Message *string
	// Optional opaque final-state snapshot supplied by the game.
	Snapshot []byte
}

// RoundPage is one page of round history plus pagination cursors.
type RoundPage struct {
	Rounds   []Round
	NextPage *int
	PrevPage *int
}

// CreateRound persists the Round record and, for named players, adds the
// score to the user's running total. Both writes happen in one transaction
// so a round is never counted without the insert.
func CreateRound(db *gorm.DB, round *Round) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return err
		}
		if round.Username == nil {
			return nil
		}
		return incrementUserScore(tx, *round.Username, round.Score)
	})
}

// FindRoundByID returns the round with the given id including its snapshot,
// or nil if there is no match.
func FindRoundByID(db *gorm.DB, id uint64) (*Round, error) {
	var round Round
	err := db.First(&round, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &round, nil
}

// ListRounds returns one page of round history, most recent first. Empty
// filter values are ignored.
func ListRounds(db *gorm.DB, gameName, username string, page int) (*RoundPage, error) {
	query := db.Model(&Round{}).Order("played_at desc")
	if gameName != "" {
		query = query.Where("game_name = ?", gameName)
	}
	if username != "" {
		query = query.Where("username = ?", username)
	}

	var rounds []Round
	err := query.Limit(PageSize).Offset(page * PageSize).Find(&rounds).Error
	if err != nil {
		return nil, err
	}

	result := &RoundPage{Rounds: rounds}
	if len(rounds) == PageSize {
		next := page + 1
		result.NextPage = &next
	}
	if page > 0 {
		prev := page - 1
		result.PrevPage = &prev
	}
	return result, nil
}

// ListHighScores returns the top 20 scoring rounds by named players. Rounds
// played anonymously never appear on the board. An empty gameName returns
// the board across all games.
func ListHighScores(db *gorm.DB, gameName string) ([]Round, error) {
	query := db.Model(&Round{}).
		Where("username IS NOT NULL").
		Order("score desc").
		Limit(20)
	if gameName != "" {
		query = query.Where("game_name = ?", gameName)
	}

	var rounds []Round
	if err := query.Find(&rounds).Error; err != nil {
		return nil, err
	}
	return rounds, nil
}

package data

import (
	"context"

	"gorm.io/gorm"
)

// Recorder is the persistence handle given to game controllers. It exists so
// session code depends on one method rather than a database handle.
type Recorder struct {
	DB *gorm.DB
}

// SaveRound persists one player's round. The context is honored by the
// underlying driver so storage calls unwind during shutdown once their work
// is done.
func (r *Recorder) SaveRound(ctx context.Context, round *Round) error {
	return CreateRound(r.DB.WithContext(ctx), round)
}

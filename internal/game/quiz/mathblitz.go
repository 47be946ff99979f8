package quiz

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
)

const (
	mathBlitzName     = "Math Blitz"
	mathBlitzDuration = 15
)

// newMathQuestion generates one arithmetic question. Subtraction operands
// are ordered so the answer is never negative.
func newMathQuestion(rng *rand.Rand) Question {
	a := rng.Intn(12) + 1
	b := rng.Intn(12) + 1

	var prompt string
	var answer int
	switch rng.Intn(3) {
	case 0:
		prompt = fmt.Sprintf("%d + %d = ?", a, b)
		answer = a + b
	case 1:
		if a < b {
			a, b = b, a
		}
		prompt = fmt.Sprintf("%d - %d = ?", a, b)
		answer = a - b
	default:
		prompt = fmt.Sprintf("%d * %d = ?", a, b)
		answer = a * b
	}

	return NewBasicQuestion(prompt, fmt.Sprintf("%d", answer), mathBlitzDuration)
}

// newMathSource produces questions forever; a blitz session only ends when
// the player leaves.
func newMathSource(rng *rand.Rand) Source {
	return SourceFunc(func(ctx context.Context) (Question, error) {
		return newMathQuestion(rng), nil
	})
}

// NewMathBlitz returns the solo arithmetic game manager.
func NewMathBlitz(deps Deps) *game.SoloManager {
	return game.NewSoloManager(mathBlitzName, mathBlitzName, func(p *player.Player) *game.Controller {
		rng := rand.New(rand.NewSource(rand.Int63()))
		return deps.newSession(mathBlitzName, p, newMathSource(rng))
	})
}

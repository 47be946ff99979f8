package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/termninja/termninja/internal/core/clock"
	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/term"
)

// defaultPollInterval bounds how stale the displayed countdown can get while
// the player types nothing.
const defaultPollInterval = 500 * time.Millisecond

// Number of terminal lines between the input line and the countdown bar in
// the prompt layout below.
const barLinesAboveInput = 4

// Engine drives one player through a timed question loop: prompt, poll with
// countdown refreshes, score or time out, intermission, next question. One
// Engine serves one player for one session.
type Engine struct {
	Player *player.Player
	Source Source
	// Clock defaults to the system clock when nil.
	Clock clock.Clock
	// PollInterval defaults to 500ms when zero.
	PollInterval time.Duration
	Logger       *zap.SugaredLogger

	questionCount int
	correctCount  int
}

// QuestionCount is the number of questions fully played so far.
func (e *Engine) QuestionCount() int { return e.questionCount }

// CorrectCount is the number of questions that earned points.
func (e *Engine) CorrectCount() int { return e.correctCount }

// Run plays questions until the source is exhausted, the player goes away,
// or the context is cancelled. Points are credited to the player as each
// question resolves, so a session cut short still reflects everything earned
// up to that moment.
func (e *Engine) Run(ctx context.Context) error {
	for {
		question, err := e.Source.Next(ctx)
		if errors.Is(err, ErrNoMoreQuestions) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error producing next question: %w", err)
		}

		earned, err := e.playRound(ctx, question)
		if err != nil {
			return err
		}

		e.questionCount++
		if earned > 0 {
			e.correctCount++
		}
		e.Player.AddEarned(earned)

		if err := e.intermission(question, earned); err != nil {
			return err
		}
	}
}

// playRound runs one timed round and returns the points earned. A correct
// answer is worth however many whole seconds remained when its poll tick
// began; no answer by the deadline is worth zero.
func (e *Engine) playRound(ctx context.Context, question Question) (int, error) {
	roundLength := question.Duration()
	start := e.now()

	if err := e.sendPrompt(question); err != nil {
		return 0, err
	}

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		elapsed := e.now().Sub(start)
		remaining := roundLength - int(elapsed/time.Second)
		if remaining < 0 {
			remaining = 0
		}
		if err := e.updateProgress(remaining, roundLength); err != nil {
			return 0, err
		}

		guess, err := e.Player.ReadLine(e.pollInterval())
		if err != nil && !player.IsTimeout(err) {
			return 0, err
		}
		if err == nil {
			// Wipe whatever was typed so the next refresh stays clean.
			if err := e.Player.Send(term.ClearEntry); err != nil {
				return 0, err
			}
			if question.Check(guess) {
				return remaining, nil
			}
		}

		if e.now().Sub(start) >= time.Duration(roundLength)*time.Second {
			return 0, nil
		}
	}
}

// sendPrompt draws the initial round screen: question, a full countdown bar,
// and the player's running totals.
func (e *Engine) sendPrompt(question Question) error {
	duration := question.Duration()
	msg := fmt.Sprintf(
		"\r\n%s\r\n\r\n  %s\r\n\r\n  earned: %d   total: %d\r\n\r\n  > ",
		question.Prompt(),
		term.ProgressBar(duration, duration),
		e.Player.Earned(),
		e.Player.Score(),
	)
	return e.Player.Send(msg)
}

// updateProgress redraws the countdown bar in place.
func (e *Engine) updateProgress(remaining, roundLength int) error {
	bar := term.ProgressBar(remaining, roundLength)
	return e.Player.Send(term.RefreshLines(barLinesAboveInput, "  "+bar))
}

// intermission reports the answer and the points earned, then waits for the
// player to acknowledge before the next question. Whatever they type to
// continue is discarded.
func (e *Engine) intermission(question Question, earned int) error {
	tone := term.Bad
	if earned > 0 {
		tone = term.Good
	}

	msg := fmt.Sprintf(
		"\r\n\r\nCorrect answer: %s\r\nPoints earned:  %s\r\n\r\n%s\r\n",
		tone(question.DisplayAnswer()),
		tone(strconv.Itoa(earned)),
		term.Info("Press enter to continue..."),
	)
	if err := e.Player.Send(msg); err != nil {
		return err
	}

	_, err := e.Player.ReadLine(0)
	return err
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock.Now()
	}
	return time.Now()
}

func (e *Engine) pollInterval() time.Duration {
	if e.PollInterval > 0 {
		return e.PollInterval
	}
	return defaultPollInterval
}

// Results adapts an Engine's counters into the result-reporting capability
// attached to the session's persisted round.
type Results struct {
	Engine *Engine
}

// ResultMessage summarizes the session, e.g. "Answered 72.50% (29/40)
// correctly". Nil when no question was played.
func (r Results) ResultMessage(p *player.Player) *string {
	count := r.Engine.QuestionCount()
	if count == 0 {
		return nil
	}

	correct := r.Engine.CorrectCount()
	msg := fmt.Sprintf(
		"Answered %.2f%% (%d/%d) correctly",
		float64(correct)/float64(count)*100,
		correct,
		count,
	)
	return &msg
}

// Snapshot is not produced by the generic engine.
func (r Results) Snapshot(p *player.Player) []byte { return nil }

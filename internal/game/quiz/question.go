// Package quiz implements the timed question loop shared by the quiz-style
// games, plus the concrete games built on it.
package quiz

import "strings"

// Question is one prompt/answer pair with its round duration. Questions are
// immutable once produced.
type Question interface {
	// Prompt is the text shown to the player when the round starts.
	Prompt() string
	// Check reports whether the submitted answer is correct.
	Check(answer string) bool
	// Duration is the round length in seconds, which is also the maximum
	// number of points the question is worth.
	Duration() int
	// DisplayAnswer is the answer as shown during the intermission. It may
	// differ from what Check accepts, e.g. in case normalization.
	DisplayAnswer() string
}

// BasicQuestion is a Question with a single canonical answer compared by
// exact equality.
type BasicQuestion struct {
	prompt   string
	answer   string
	duration int
}

// NewBasicQuestion builds a BasicQuestion.
func NewBasicQuestion(prompt, answer string, duration int) BasicQuestion {
	return BasicQuestion{prompt: prompt, answer: answer, duration: duration}
}

func (q BasicQuestion) Prompt() string { return q.prompt }

// Check compares the trimmed submission against the canonical answer.
func (q BasicQuestion) Check(answer string) bool {
	return strings.TrimSpace(answer) == q.answer
}

func (q BasicQuestion) Duration() int { return q.duration }

func (q BasicQuestion) DisplayAnswer() string { return q.answer }

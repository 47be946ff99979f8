package quiz

import (
	"context"
	"errors"
)

// ErrNoMoreQuestions is returned by a Source once its sequence is exhausted.
// The engine treats it as the natural end of the session.
var ErrNoMoreQuestions = errors.New("no more questions")

// Source produces questions lazily, one at a time, never rewound. A Source
// may be finite or infinite.
type Source interface {
	Next(ctx context.Context) (Question, error)
}

// SliceSource serves a fixed set of questions in order.
type SliceSource struct {
	questions []Question
	next      int
}

// NewSliceSource builds a finite Source over the given questions.
func NewSliceSource(questions ...Question) *SliceSource {
	return &SliceSource{questions: questions}
}

func (s *SliceSource) Next(ctx context.Context) (Question, error) {
	if s.next >= len(s.questions) {
		return nil, ErrNoMoreQuestions
	}
	q := s.questions[s.next]
	s.next++
	return q, nil
}

// SourceFunc adapts a generator function into a Source.
type SourceFunc func(ctx context.Context) (Question, error)

func (f SourceFunc) Next(ctx context.Context) (Question, error) {
	return f(ctx)
}

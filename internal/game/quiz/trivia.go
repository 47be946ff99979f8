package quiz

import (
	"encoding/json"
	"math/rand"

	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
)

const (
	triviaName     = "Trivia"
	triviaDuration = 30
)

// triviaBank is the built-in question set. Answers are a single lowercase
// word or number since submissions are matched exactly.
var triviaBank = []BasicQuestion{
	NewBasicQuestion("What planet is known as the red planet? (one word, lowercase)", "mars", triviaDuration),
	NewBasicQuestion("How many bits are in a byte?", "8", triviaDuration),
	NewBasicQuestion("What is the chemical symbol for gold? (capitalized)", "Au", triviaDuration),
	NewBasicQuestion("What year did the first person walk on the moon?", "1969", triviaDuration),
	NewBasicQuestion("What is the default port for SSH?", "22", triviaDuration),
	NewBasicQuestion("How many continents are there?", "7", triviaDuration),
	NewBasicQuestion("What animal is the largest living land mammal? (one word, lowercase)", "elephant", triviaDuration),
	NewBasicQuestion("What is the capital of Japan? (one word, lowercase)", "tokyo", triviaDuration),
	NewBasicQuestion("How many keys are on a standard piano?", "88", triviaDuration),
	NewBasicQuestion("What is the only even prime number?", "2", triviaDuration),
	NewBasicQuestion("What does the C in TCP stand for? (one word, lowercase)", "control", triviaDuration),
	NewBasicQuestion("How many legs does a spider have?", "8", triviaDuration),
}

// newTriviaSource deals the bank in a fresh random order per session.
func newTriviaSource() Source {
	order := rand.Perm(len(triviaBank))
	questions := make([]Question, len(triviaBank))
	for i, j := range order {
		questions[i] = triviaBank[j]
	}
	return NewSliceSource(questions...)
}

// NewTrivia returns the solo trivia game manager.
func NewTrivia(deps Deps) *game.SoloManager {
	return game.NewSoloManager(triviaName, triviaName, func(p *player.Player) *game.Controller {
		controller := deps.newSession(triviaName, p, newTriviaSource())
		controller.Results = triviaResults{controller.Results.(Results)}
		return controller
	})
}

// triviaResults adds a final-state snapshot with the session counters on top
// of the standard result message.
type triviaResults struct {
	Results
}

func (r triviaResults) Snapshot(p *player.Player) []byte {
	snapshot, err := json.Marshal(struct {
		Questions int `json:"questions"`
		Correct   int `json:"correct"`
		Earned    int `json:"earned"`
	}{
		Questions: r.Engine.QuestionCount(),
		Correct:   r.Engine.CorrectCount(),
		Earned:    p.Earned(),
	})
	if err != nil {
		return nil
	}
	return snapshot
}

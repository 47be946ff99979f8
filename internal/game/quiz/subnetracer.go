package quiz

import (
	"fmt"
	"math/rand"
	"net"

	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
)

const (
	subnetRacerName            = "Subnet Racer"
	subnetRacerDuration        = 45
	defaultSubnetRacerQuestion = 10
)

// newSubnetQuestion generates one network-address question for a random
// IPv4 address and prefix length.
func newSubnetQuestion(rng *rand.Rand) Question {
	ip := net.IPv4(
		byte(rng.Intn(223)+1), // stay below multicast space
		byte(rng.Intn(256)),
		byte(rng.Intn(256)),
		byte(rng.Intn(256)),
	)
	prefixLen := rng.Intn(23) + 8 // /8 through /30

	network := ip.Mask(net.CIDRMask(prefixLen, 32))
	prompt := fmt.Sprintf("What is the network address of %s/%d?", ip.String(), prefixLen)

	return NewBasicQuestion(prompt, network.String(), subnetRacerDuration)
}

func newSubnetSource(rng *rand.Rand, count int) Source {
	if count <= 0 {
		count = defaultSubnetRacerQuestion
	}
	questions := make([]Question, count)
	for i := range questions {
		questions[i] = newSubnetQuestion(rng)
	}
	return NewSliceSource(questions...)
}

// NewSubnetRacer returns the solo subnetting game manager. Each session
// runs questionCount questions (a default when <= 0).
func NewSubnetRacer(deps Deps, questionCount int) *game.SoloManager {
	return game.NewSoloManager(subnetRacerName, subnetRacerName, func(p *player.Player) *game.Controller {
		rng := rand.New(rand.NewSource(rand.Int63()))
		return deps.newSession(subnetRacerName, p, newSubnetSource(rng, questionCount))
	})
}

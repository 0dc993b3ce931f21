package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SessionGenerator produces gesture session tokens.
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable session tokens. It is stateless
// and safe for concurrent use.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator produces prefix-1, prefix-2, ... and is used wherever
// output must be reproducible, such as scenario runs and replays.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

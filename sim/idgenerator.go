package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs for events, messages and traced tasks.
type IDGenerator interface {
	Generate() string
}

// Sequential IDs are short decimal counters while xids are twenty characters
// long, so a run may switch generators without reusing an ID.
var (
	sequentialIDs = &sequentialIDGenerator{}
	currentIDs    atomic.Pointer[idGeneratorSlot]
)

type idGeneratorSlot struct {
	g IDGenerator
}

// UseSequentialIDGenerator makes every later ID a number from a process-wide
// counter. This is the default. Runs that start from a fresh process get the
// same IDs every time.
func UseSequentialIDGenerator() {
	currentIDs.Store(&idGeneratorSlot{sequentialIDs})
}

// UseParallelIDGenerator makes every later ID a globally unique xid. Frames
// rendered at the same time then do not share one counter.
func UseParallelIDGenerator() {
	currentIDs.Store(&idGeneratorSlot{parallelIDGenerator{}})
}

// GetIDGenerator returns the generator selected last.
func GetIDGenerator() IDGenerator {
	if slot := currentIDs.Load(); slot != nil {
		return slot.g
	}

	return sequentialIDs
}

type sequentialIDGenerator struct {
	nextID atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.nextID.Add(1), 10)
}

type parallelIDGenerator struct{}

func (parallelIDGenerator) Generate() string {
	return xid.New().String()
}

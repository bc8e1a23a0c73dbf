package exec

import (
	"github.com/rs/zerolog"

	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/memory"
	"github.com/DexterHill0/SPWN-language/object"
	"github.com/DexterHill0/SPWN-language/value"
)

// Options configures an Executor, in the shape of the teacher's own
// Options/opt split (generalized from github.com/breadchris/yaegi's
// interp.Options/interp.opt): an exported struct holding everything a
// caller may want to set, resolved once into defaults at NewGlobals.
type Options struct {
	// Debug is recorded in the resolved options but no instruction reads
	// it; Print output is colored via github.com/fatih/color either way.
	Debug bool
	// Logger receives structured diagnostics (ticks, splits, prunes, id
	// exhaustion warnings). The zero value is zerolog.Nop(): silent by
	// default, never nil-checked at call sites.
	Logger zerolog.Logger
	// MaxTicks bounds the interpreter loop as a runaway-program safety
	// valve; 0 means unbounded.
	MaxTicks int
	// Types is recorded in the resolved options but no instruction
	// consults it: TypeDef/Impl/Instance return NotImplementedError and
	// LoadType pushes a user TypeIndicator whether or not it is set.
	Types TypeRegistry
}

type opt struct {
	debug    bool
	logger   zerolog.Logger
	maxTicks int
	types    TypeRegistry
}

func resolveOptions(o Options) opt {
	return opt{debug: o.Debug, logger: o.Logger, maxTicks: o.MaxTicks, types: o.Types}
}

// Globals is the process-wide state shared by every Context in a run:
// the value arena, the four arbitrary-id counters, emitted
// objects/triggers, and the set of call ids still considered live
// (§4.3 Return, §5 Shared resources). It is passed by exclusive
// reference to every entry point, never held as ambient/static state
// (§9 Design Notes).
type Globals struct {
	Arena *memory.Arena[value.StoredValue]

	arbitraryCounters [4]uint32
	nextCallID        int64
	liveCallIDs       map[int64]bool

	Objects  []*object.GdObj
	Triggers []*object.GdObj

	opt opt
}

// NewGlobals returns a fresh Globals ready to drive one interpreter run.
func NewGlobals(o Options) *Globals {
	return &Globals{
		Arena:       memory.NewArena[value.StoredValue](),
		liveCallIDs: map[int64]bool{},
		opt:         resolveOptions(o),
	}
}

// AllocArbitrary hands out the next arbitrary id for class, in
// left-to-right visitation order (§5 Ordering guarantees: arbitrary-id
// allocation order is deterministic).
func (g *Globals) AllocArbitrary(class ids.Class) ids.Id {
	seq := g.arbitraryCounters[class]
	g.arbitraryCounters[class]++
	return ids.Arbitrary(seq)
}

// NewCallID allocates a call id and marks it live.
func (g *Globals) NewCallID() int64 {
	id := g.nextCallID
	g.nextCallID++
	g.liveCallIDs[id] = true
	return id
}

// CallIsLive reports whether id is still in the live-call set (§4.3
// Return: a context whose top frame's call id has been evicted yeets
// instead of returning normally — another branch abandoned the call).
func (g *Globals) CallIsLive(id int64) bool { return g.liveCallIDs[id] }

// EvictCall removes id from the live-call set.
func (g *Globals) EvictCall(id int64) { delete(g.liveCallIDs, id) }

func (g *Globals) logger() *zerolog.Logger { return &g.opt.logger }

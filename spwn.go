// Package spwn is the small public entry point tying the bytecode,
// value, memory, object and exec packages together into one interpreter
// run: load a Program, execute it against a fresh Globals, then resolve
// and serialize the emitted objects/triggers onto an existing level
// string (§4.5, §6.2).
//
// The shape follows the teacher's own Options/opt split
// (runtime/funcvm.go's debug bool generalized the way
// breadchris-yaegi's interp.New(interp.Options) resolves its opt from a
// caller-supplied Options struct), not a from-scratch design.
package spwn

import (
	"github.com/DexterHill0/SPWN-language/bytecode"
	"github.com/DexterHill0/SPWN-language/exec"
	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/object"
)

// Options configures an Interpreter. It is a type alias of exec.Options
// and is passed straight through to exec.NewGlobals; spwn adds no
// options of its own.
type Options = exec.Options

// Interpreter drives one compiled Program to a final, serialized level
// string. It is not safe for concurrent use: a single run owns its
// Globals exclusively (§9 Design Notes, §5 Scheduling).
type Interpreter struct {
	opt Options
}

// New returns an Interpreter configured by opts.
func New(opts Options) *Interpreter {
	return &Interpreter{opt: opts}
}

// Run executes prog to completion starting from a single root context
// tagged with the default starting group (Specific(0), per scenario 1 of
// §8), then resolves every arbitrary id against levelString and appends
// the serialized result (§4.5, §6.2). It returns the full new level
// string ready to write back to the level file.
func (it *Interpreter) Run(prog *bytecode.Program, levelString string) (string, error) {
	g := exec.NewGlobals(it.opt)
	ex := exec.NewExecutor(prog, g)

	root := exec.NewSingle(exec.NewContext("O", ids.Specific(0), 0, 0))
	if _, err := ex.Run(root); err != nil {
		return "", err
	}

	all := make([]*object.GdObj, 0, len(g.Objects)+len(g.Triggers))
	all = append(all, g.Objects...)
	all = append(all, g.Triggers...)

	if err := object.Resolve(levelString, all, it.opt.Logger); err != nil {
		return "", err
	}
	return object.Append(levelString, all), nil
}

package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode and Decode implement the round-trippable text encoding this
// implementation chose for Program persistence (§6.4 leaves the format
// unspecified). The section-marker-and-counts shape is adapted from the
// teacher's own bytecode assembler (compiler/asm.go's "[f]"/"[k]"/"[i]"
// scanner), generalized to this instruction set's extra pools (names,
// name-sets, jump destinations, macro build info). Spans and
// MacroArgSpans are not encoded; Decode returns them as empty maps.

const (
	secFuncs          = "[funcs]"
	secConsts         = "[consts]"
	secNames          = "[names]"
	secNameSets       = "[namesets]"
	secDestinations   = "[dest]"
	secMacroBuildInfo = "[macros]"
)

// Encode serializes p into the text format. It never fails: Program is
// always well-formed by construction.
func Encode(p *Program) string {
	var b strings.Builder

	fmt.Fprintln(&b, secFuncs)
	fmt.Fprintln(&b, len(p.Funcs))
	for _, f := range p.Funcs {
		fmt.Fprintln(&b, len(f.Instructions))
		for _, instr := range f.Instructions {
			fmt.Fprintf(&b, "%d %d\n", instr.Op, instr.Operand)
		}
		encodeIntSlice(&b, f.ArgIDs)
		encodeIntSlice(&b, f.CaptureIDs)
		encodeIntSlice(&b, f.ScopedVarIDs)
	}

	fmt.Fprintln(&b, secConsts)
	fmt.Fprintln(&b, len(p.Constants))
	for _, c := range p.Constants {
		switch c.Kind {
		case ConstInt:
			fmt.Fprintf(&b, "i%d\n", c.Int)
		case ConstFloat:
			fmt.Fprintf(&b, "f%v\n", c.Flt)
		case ConstString:
			fmt.Fprintf(&b, "s%s\n", c.Str)
		case ConstBool:
			v := 0
			if c.Bool {
				v = 1
			}
			fmt.Fprintf(&b, "b%d\n", v)
		}
	}

	fmt.Fprintln(&b, secNames)
	fmt.Fprintln(&b, len(p.Names))
	for _, n := range p.Names {
		fmt.Fprintln(&b, n)
	}

	fmt.Fprintln(&b, secNameSets)
	fmt.Fprintln(&b, len(p.NameSets))
	for _, set := range p.NameSets {
		fmt.Fprintln(&b, strings.Join(set, ","))
	}

	fmt.Fprintln(&b, secDestinations)
	encodeIntSlice(&b, p.Destinations)

	fmt.Fprintln(&b, secMacroBuildInfo)
	fmt.Fprintln(&b, len(p.MacroBuildInfo))
	for _, mbi := range p.MacroBuildInfo {
		fmt.Fprintf(&b, "%d %d\n", mbi.FuncID, len(mbi.Args))
		for _, a := range mbi.Args {
			t, d := 0, 0
			if a.HasPattern {
				t = 1
			}
			if a.HasDefault {
				d = 1
			}
			fmt.Fprintf(&b, "%s %d %d\n", a.Name, t, d)
		}
	}

	return b.String()
}

func encodeIntSlice(b *strings.Builder, ids []int) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	fmt.Fprintln(b, strings.Join(strs, ","))
}

// textDecoder holds the scan cursor state shared by the section readers,
// mirroring the teacher's scanner-closure style without the mutual
// recursion: each readX method consumes exactly the lines it owns.
type textDecoder struct {
	s   *bufio.Scanner
	err error
}

func (d *textDecoder) line() string {
	if d.err != nil {
		return ""
	}
	if !d.s.Scan() {
		d.err = fmt.Errorf("bytecode: unexpected end of input")
		return ""
	}
	return d.s.Text()
}

func (d *textDecoder) int() int {
	n, err := strconv.Atoi(strings.TrimSpace(d.line()))
	if err != nil && d.err == nil {
		d.err = err
	}
	return n
}

func (d *textDecoder) ints() []int {
	line := strings.TrimSpace(d.line())
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil && d.err == nil {
			d.err = err
		}
		out[i] = n
	}
	return out
}

func (d *textDecoder) expect(section string) {
	got := d.line()
	if d.err == nil && got != section {
		d.err = fmt.Errorf("bytecode: expected section %q, got %q", section, got)
	}
}

// Decode parses the text format produced by Encode.
func Decode(r io.Reader) (*Program, error) {
	d := &textDecoder{s: bufio.NewScanner(r)}
	d.s.Buffer(make([]byte, 1024*1024), 1024*1024)

	p := &Program{
		MacroArgSpans: map[MacroArgSpanKey][]Span{},
		Spans:         map[MacroArgSpanKey]Span{},
	}

	d.expect(secFuncs)
	numFuncs := d.int()
	p.Funcs = make([]FuncDef, numFuncs)
	for i := 0; i < numFuncs; i++ {
		numInstr := d.int()
		instrs := make([]Instruction, numInstr)
		for j := 0; j < numInstr; j++ {
			line := strings.Fields(d.line())
			if len(line) != 2 {
				if d.err == nil {
					d.err = fmt.Errorf("bytecode: malformed instruction line %q", line)
				}
				continue
			}
			op, _ := strconv.Atoi(line[0])
			operand, _ := strconv.Atoi(line[1])
			instrs[j] = Instruction{Op: Opcode(op), Operand: operand}
		}
		p.Funcs[i] = FuncDef{
			Instructions: instrs,
			ArgIDs:       d.ints(),
			CaptureIDs:   d.ints(),
			ScopedVarIDs: d.ints(),
		}
	}

	d.expect(secConsts)
	numConsts := d.int()
	p.Constants = make([]ConstValue, numConsts)
	for i := 0; i < numConsts; i++ {
		line := d.line()
		if line == "" {
			continue
		}
		switch line[0] {
		case 'i':
			n, _ := strconv.ParseInt(line[1:], 10, 64)
			p.Constants[i] = ConstValue{Kind: ConstInt, Int: n}
		case 'f':
			f, _ := strconv.ParseFloat(line[1:], 64)
			p.Constants[i] = ConstValue{Kind: ConstFloat, Flt: f}
		case 's':
			p.Constants[i] = ConstValue{Kind: ConstString, Str: line[1:]}
		case 'b':
			p.Constants[i] = ConstValue{Kind: ConstBool, Bool: line[1:] == "1"}
		default:
			if d.err == nil {
				d.err = fmt.Errorf("bytecode: invalid constant tag %q", line)
			}
		}
	}

	d.expect(secNames)
	numNames := d.int()
	p.Names = make([]string, numNames)
	for i := 0; i < numNames; i++ {
		p.Names[i] = d.line()
	}

	d.expect(secNameSets)
	numSets := d.int()
	p.NameSets = make([][]string, numSets)
	for i := 0; i < numSets; i++ {
		line := d.line()
		if line == "" {
			p.NameSets[i] = nil
			continue
		}
		p.NameSets[i] = strings.Split(line, ",")
	}

	d.expect(secDestinations)
	p.Destinations = d.ints()

	d.expect(secMacroBuildInfo)
	numMbi := d.int()
	p.MacroBuildInfo = make([]MacroBuildInfo, numMbi)
	for i := 0; i < numMbi; i++ {
		line := strings.Fields(d.line())
		if len(line) != 2 {
			if d.err == nil {
				d.err = fmt.Errorf("bytecode: malformed macro build info header")
			}
			continue
		}
		funcID, _ := strconv.Atoi(line[0])
		numArgs, _ := strconv.Atoi(line[1])
		args := make([]MacroArgInfo, numArgs)
		for j := 0; j < numArgs; j++ {
			fields := strings.Fields(d.line())
			if len(fields) != 3 {
				if d.err == nil {
					d.err = fmt.Errorf("bytecode: malformed macro arg info")
				}
				continue
			}
			args[j] = MacroArgInfo{
				Name:       fields[0],
				HasPattern: fields[1] == "1",
				HasDefault: fields[2] == "1",
			}
		}
		p.MacroBuildInfo[i] = MacroBuildInfo{FuncID: funcID, Args: args}
	}

	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

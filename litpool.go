// Completion: 100% - Literal pool and patch manager complete
package main

// maxLits and maxPatches mirror the original's fixed tables (spec §3);
// a program that overruns either is rejected with a resource error.
const (
	maxLits    = 256
	maxPatches = 1200
)

// LitKind distinguishes what a pooled literal's 32-bit value means, so
// INT/STR/FUNC/BSS literals that happen to share a numeric value are
// never deduplicated against each other (spec §3 "Literal entry").
type LitKind int

const (
	LitInt LitKind = iota
	LitStr
	LitFunc
	LitBSS
)

// Literal is one entry of the literal pool (spec §3 "Literal entry").
// Val's meaning depends on Kind: an immediate for LitInt, a .rodata
// byte offset for LitStr, a function-table index for LitFunc, a .bss
// byte offset for LitBSS.
type Literal struct {
	Val  int
	Kind LitKind
}

// Patch is one deferred L32R fixup: the code offset of the instruction
// whose displacement needs filling once the literal pool's final layout
// (and, for LitFunc entries, the function's final address) is known
// (spec §3 "Patch entry").
type Patch struct {
	Offset int
	LitIdx int
}

// LiteralPool interns literal values and records the patch sites that
// reference them (spec §4.5). Interning is by (Val, Kind) so that, for
// example, the integer 0 and the BSS offset 0 never collapse into one
// pool slot.
type LiteralPool struct {
	Lits    []Literal
	Patches []Patch
}

// Intern returns the pool index for (val, kind), reusing an existing
// entry when one already matches (spec §4.5 "literal deduplication").
func (p *LiteralPool) Intern(val int, kind LitKind) (int, error) {
	for i, l := range p.Lits {
		if l.Val == val && l.Kind == kind {
			return i, nil
		}
	}
	if len(p.Lits) >= maxLits {
		return 0, errNoLine("too many literals (limit %d)", maxLits)
	}
	p.Lits = append(p.Lits, Literal{Val: val, Kind: kind})
	return len(p.Lits) - 1, nil
}

// RecordPatch registers a pending L32R fixup at the given code offset
// against pool entry litIdx.
func (p *LiteralPool) RecordPatch(offset, litIdx int) error {
	if len(p.Patches) >= maxPatches {
		return errNoLine("too many literal-pool patches (limit %d)", maxPatches)
	}
	p.Patches = append(p.Patches, Patch{Offset: offset, LitIdx: litIdx})
	return nil
}

// Len reports the literal pool's size in bytes: one 4-byte word per
// entry, the form it takes once prepended to .text (spec §4.5).
func (p *LiteralPool) Len() int { return len(p.Lits) * 4 }

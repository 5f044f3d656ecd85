// Completion: 100% - Symbol tables complete
package main

// MAX_VARS and MAX_LOCAL_VARS mirror the original source's fixed-size
// tables (spec §3); exceeding either is a resource error, not a silent
// truncation, so the compiler still rejects the same oversized programs.
const (
	maxVars      = 256
	maxLocalVars = 128
)

// Variable is one entry of the variable table (spec §3 "Variable entry").
type Variable struct {
	Name string
	Type TypeFlags
	Addr int // stack offset for locals, .bss byte offset for globals, value for enum constants
	Size int // element count for arrays, 1 otherwise
}

// Function is one entry of the function table (spec §3 "Function entry").
// Addr is -1 until the function's definition has been seen; a forward
// call records a literal-pool patch against the entry and is resolved
// once Addr becomes known, or left external if it never does.
type Function struct {
	Name    string
	Addr    int
	Defined bool
	NArgs   int
}

// SymbolTable holds the variable and function tables for one compilation
// unit (spec §3). Locals are variables at index >= NGlobals; entering a
// new function resets the table back to just the globals.
type SymbolTable struct {
	Vars      []Variable
	NGlobals  int
	Funcs     []Function
	frameHigh int // high-water mark of local byte offsets, for frame sizing
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// EnterFunction truncates the variable table back to just the globals,
// so a new function's locals start shadowing from a clean slate (spec
// §4.2, "locals reset on entering a new function").
func (s *SymbolTable) EnterFunction() {
	s.Vars = s.Vars[:s.NGlobals]
	s.frameHigh = 0
}

// AddVar appends a variable entry, enforcing both the global table cap
// and, for locals, the per-function cap.
func (s *SymbolTable) AddVar(name string, typ TypeFlags, addr, size int) (*Variable, error) {
	if len(s.Vars) >= maxVars {
		return nil, errNoLine("too many variables (limit %d)", maxVars)
	}
	if !typ.isGlobal() && len(s.Vars)-s.NGlobals >= maxLocalVars {
		return nil, errNoLine("too many local variables in one function (limit %d)", maxLocalVars)
	}
	s.Vars = append(s.Vars, Variable{Name: name, Type: typ, Addr: addr, Size: size})
	if typ.isGlobal() {
		s.NGlobals = len(s.Vars)
	}
	return &s.Vars[len(s.Vars)-1], nil
}

// FindVar scans backwards so a local shadows a global of the same name
// (spec §4.2, "most-recently-declared wins").
func (s *SymbolTable) FindVar(name string) *Variable {
	for i := len(s.Vars) - 1; i >= 0; i-- {
		if s.Vars[i].Name == name {
			return &s.Vars[i]
		}
	}
	return nil
}

// GetFunc returns the named function's entry, creating an undefined
// (Addr=-1) placeholder on first reference — the call site that sees
// it first may be a forward call or the definition itself; a prototype
// alone does not create an entry (spec §4.2 "get_func").
func (s *SymbolTable) GetFunc(name string) *Function {
	for i := range s.Funcs {
		if s.Funcs[i].Name == name {
			return &s.Funcs[i]
		}
	}
	s.Funcs = append(s.Funcs, Function{Name: name, Addr: -1})
	return &s.Funcs[len(s.Funcs)-1]
}

// NoteLocalOffset folds a newly assigned local's byte offset into the
// running frame high-water mark, used to size the function's ENTRY
// frame once the body has been fully parsed.
func (s *SymbolTable) NoteLocalOffset(off int) {
	if off > s.frameHigh {
		s.frameHigh = off
	}
}

func (s *SymbolTable) FrameSize() int { return s.frameHigh }

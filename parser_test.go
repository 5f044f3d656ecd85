package main

import "testing"

func compileSrc(t *testing.T, src string) *Compiler {
	t.Helper()
	c := NewCompiler([]byte(src))
	if err := c.Compile(); err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return c
}

func TestCompileMinimalMain(t *testing.T) {
	c := compileSrc(t, `int main() { return 0; }`)
	fn := c.sym.GetFunc("main")
	if !fn.Defined {
		t.Fatal("expected main to be recorded as defined")
	}
	if c.em.Code.Len() == 0 {
		t.Fatal("expected some code to be emitted")
	}
}

func TestCompileGlobalVarAndFunction(t *testing.T) {
	c := compileSrc(t, `
int counter;
int inc() { counter = counter + 1; return counter; }
int main() { return inc(); }
`)
	if c.bssSize != 4 {
		t.Fatalf("expected bssSize 4 for one global int, got %d", c.bssSize)
	}
	if len(c.sym.Funcs) != 2 {
		t.Fatalf("expected 2 function entries, got %d", len(c.sym.Funcs))
	}
}

func TestCompileEnumConstants(t *testing.T) {
	c := compileSrc(t, `
enum { RED=1, GREEN, BLUE };
int main() { return GREEN; }
`)
	v := c.sym.FindVar("GREEN")
	if v == nil || v.Addr != 2 {
		t.Fatalf("expected GREEN==2, got %+v", v)
	}
}

func TestCompileStringLiteralGoesToRodata(t *testing.T) {
	c := compileSrc(t, `
int puts(char *s);
int main() { puts("hi"); return 0; }
`)
	if len(c.rodata) != 3 { // "hi\0"
		t.Fatalf("expected 3 rodata bytes, got %d: %q", len(c.rodata), c.rodata)
	}
}

func TestCompileArrayDeclaration(t *testing.T) {
	c := compileSrc(t, `
int main() { int xs[4]; xs[0] = 1; return xs[0]; }
`)
	v := c.sym.FindVar("xs")
	if v == nil || !v.Type.isArr() {
		t.Fatalf("expected xs to be an int array, got %+v", v)
	}
	if v.Size != 4 {
		t.Fatalf("expected size 4, got %d", v.Size)
	}
}

func TestCompileForwardCallBeforeDefinition(t *testing.T) {
	c := compileSrc(t, `
int helper();
int main() { return helper(); }
int helper() { return 42; }
`)
	fn := c.sym.GetFunc("helper")
	if !fn.Defined || fn.Addr < 0 {
		t.Fatalf("expected helper to end up defined, got %+v", fn)
	}
}

func TestCallArgumentCapEnforced(t *testing.T) {
	c := NewCompiler([]byte(`
int f(int a, int b, int c, int d, int e, int g);
int main() { return f(1,2,3,4,5,6); }
`))
	if err := c.Compile(); err == nil {
		t.Fatal("expected an error for a call with more than 5 arguments")
	}
}

func TestCallWithFiveArgumentsCompiles(t *testing.T) {
	compileSrc(t, `
int f(int a, int b, int c, int d, int e);
int main() { return f(1,2,3,4,5); }
`)
}

func TestWhileLoopPatchesBackward(t *testing.T) {
	compileSrc(t, `
int main() {
  int i = 0;
  while (i < 10) { i = i + 1; }
  return i;
}
`)
}

func TestIfElsePatchesBothBranches(t *testing.T) {
	compileSrc(t, `
int main() {
  int x = 1;
  if (x) { return 1; } else { return 0; }
}
`)
}

func TestTernaryExpression(t *testing.T) {
	compileSrc(t, `int main() { int x = 1 ? 2 : 3; return x; }`)
}

func TestPointerAndDereference(t *testing.T) {
	compileSrc(t, `
int main() {
  int x = 5;
  int *p = &x;
  *p = 6;
  return *p;
}
`)
}

func TestUndefinedVariableIsFatal(t *testing.T) {
	c := NewCompiler([]byte(`int main() { return nope; }`))
	if err := c.Compile(); err == nil {
		t.Fatal("expected an error referencing an undefined variable")
	}
}

func TestEntryFrameCoversArgumentSpillWithNoLocals(t *testing.T) {
	// A function that takes parameters but declares no local variables
	// in its body (e.g. spec's own fact()/add() examples) must still
	// reserve enough ENTRY frame to hold the argument-spill area the
	// prologue writes into, not just the mandatory 32-byte save area.
	c := compileSrc(t, `int add(int a, int b) { return a+b; }`)
	fn := c.sym.GetFunc("add")
	code := c.em.Code.b
	imm12 := (int(code[fn.Addr+1]) >> 4) | (int(code[fn.Addr+2]) << 4)
	frameSize := imm12 * 8
	const wantMin = 40 // 32-byte save area + 2 spilled 4-byte args
	if frameSize < wantMin {
		t.Fatalf("ENTRY frame size %d too small to hold argument spill, want >= %d", frameSize, wantMin)
	}
}

func TestLocalFrameCapEnforced(t *testing.T) {
	src := "int main() {\n"
	for i := 0; i < maxLocalVars+2; i++ {
		src += "int v" + itoa(i) + " = 0;\n"
	}
	src += "return 0; }\n"
	c := NewCompiler([]byte(src))
	if err := c.Compile(); err == nil {
		t.Fatal("expected an error once the local frame exceeds its limit")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

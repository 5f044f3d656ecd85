package main

import "testing"

func TestFindVarShadowing(t *testing.T) {
	s := NewSymbolTable()
	if _, err := s.AddVar("x", tfGlobal|tyInt, 0, 1); err != nil {
		t.Fatal(err)
	}
	s.EnterFunction()
	if _, err := s.AddVar("x", tyInt, 32, 1); err != nil {
		t.Fatal(err)
	}
	v := s.FindVar("x")
	if v.Type.isGlobal() {
		t.Fatal("expected the local to shadow the global")
	}
	if v.Addr != 32 {
		t.Fatalf("got addr %d want 32", v.Addr)
	}
}

func TestFindVarMissing(t *testing.T) {
	s := NewSymbolTable()
	if s.FindVar("nope") != nil {
		t.Fatal("expected nil for an undefined variable")
	}
}

func TestGetFuncCreatesUndefined(t *testing.T) {
	s := NewSymbolTable()
	fn := s.GetFunc("foo")
	if fn.Addr != -1 || fn.Defined {
		t.Fatalf("new function entry should be undefined: %+v", fn)
	}
	fn.Addr = 16
	fn.Defined = true
	again := s.GetFunc("foo")
	if again != fn {
		t.Fatal("expected the same entry to be returned on re-lookup")
	}
}

func TestEnterFunctionResetsLocals(t *testing.T) {
	s := NewSymbolTable()
	s.AddVar("g", tfGlobal|tyInt, 0, 1)
	s.AddVar("g2", tfGlobal|tyInt, 4, 1)
	s.EnterFunction()
	s.AddVar("a", tyInt, 32, 1)
	if len(s.Vars) != 3 {
		t.Fatalf("got %d vars, want 3", len(s.Vars))
	}
	s.EnterFunction()
	if len(s.Vars) != s.NGlobals {
		t.Fatalf("expected locals cleared back to %d globals, got %d vars", s.NGlobals, len(s.Vars))
	}
}

func TestAddVarCapsEnforced(t *testing.T) {
	s := NewSymbolTable()
	s.EnterFunction()
	for i := 0; i < maxLocalVars; i++ {
		if _, err := s.AddVar("v", tyInt, i*4, 1); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if _, err := s.AddVar("overflow", tyInt, 9999, 1); err == nil {
		t.Fatal("expected an error once the local-variable cap is exceeded")
	}
}

package main

import "testing"

func TestInternDeduplicatesByValueAndKind(t *testing.T) {
	p := &LiteralPool{}
	a, err := p.Intern(42, LitInt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Intern(42, LitInt)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("expected the same index for a repeated (val,kind), got %d and %d", a, b)
	}
	if len(p.Lits) != 1 {
		t.Fatalf("expected one pooled entry, got %d", len(p.Lits))
	}
}

func TestInternDistinguishesKind(t *testing.T) {
	p := &LiteralPool{}
	a, _ := p.Intern(0, LitInt)
	b, _ := p.Intern(0, LitBSS)
	if a == b {
		t.Fatal("an INT literal and a BSS literal sharing a value must not collapse into one entry")
	}
}

func TestLenIsFourBytesPerEntry(t *testing.T) {
	p := &LiteralPool{}
	p.Intern(1, LitInt)
	p.Intern(2, LitInt)
	p.Intern(2, LitStr)
	if p.Len() != 12 {
		t.Fatalf("got %d want 12", p.Len())
	}
}

func TestInternCapEnforced(t *testing.T) {
	p := &LiteralPool{}
	for i := 0; i < maxLits; i++ {
		if _, err := p.Intern(i, LitInt); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if _, err := p.Intern(9999, LitInt); err == nil {
		t.Fatal("expected an error once the literal pool cap is exceeded")
	}
}

func TestRecordPatchCapEnforced(t *testing.T) {
	p := &LiteralPool{}
	idx, _ := p.Intern(1, LitInt)
	for i := 0; i < maxPatches; i++ {
		if err := p.RecordPatch(i, idx); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if err := p.RecordPatch(9999, idx); err == nil {
		t.Fatal("expected an error once the patch table cap is exceeded")
	}
}

package main

import (
	"encoding/binary"
	"testing"
)

func buildObj(t *testing.T, src string) []byte {
	t.Helper()
	c := NewCompiler([]byte(src))
	if err := c.Compile(); err != nil {
		t.Fatalf("compile error: %v", err)
	}
	obj, err := NewELFWriter(c).Build()
	if err != nil {
		t.Fatalf("elf write error: %v", err)
	}
	return obj
}

func TestELFMagicAndHeaderFields(t *testing.T) {
	obj := buildObj(t, `int main() { return 0; }`)
	if len(obj) < elfHeaderSize {
		t.Fatalf("object too small: %d bytes", len(obj))
	}
	if obj[0] != 0x7f || obj[1] != 'E' || obj[2] != 'L' || obj[3] != 'F' {
		t.Fatal("missing ELF magic")
	}
	if obj[4] != 1 {
		t.Errorf("expected ELFCLASS32 (1), got %d", obj[4])
	}
	if obj[5] != 1 {
		t.Errorf("expected little-endian (1), got %d", obj[5])
	}
	eType := binary.LittleEndian.Uint16(obj[16:18])
	if eType != 1 {
		t.Errorf("expected ET_REL (1), got %d", eType)
	}
	eMachine := binary.LittleEndian.Uint16(obj[18:20])
	if eMachine != 94 {
		t.Errorf("expected EM_XTENSA (94), got %d", eMachine)
	}
	eShnum := binary.LittleEndian.Uint16(obj[48:50])
	if eShnum != 8 {
		t.Errorf("expected 8 section headers, got %d", eShnum)
	}
}

func TestELFSectionHeaderTableOffsetMatchesFileSize(t *testing.T) {
	obj := buildObj(t, `
int g;
int helper() { return 1; }
int main() { g = helper(); return g; }
`)
	shoff := binary.LittleEndian.Uint32(obj[32:36])
	// The section header table is the last thing written, at a 4-byte
	// aligned offset, and always ends exactly at EOF (spec §4.7).
	if int(shoff)+8*40 != len(obj) {
		t.Fatalf("e_shoff (%d) + header table size != file size (%d)", shoff, len(obj))
	}
}

func TestELFRelocationsEmittedForStringsAndBSS(t *testing.T) {
	obj := buildObj(t, `
int g;
int puts(char *s);
int main() { g = 1; puts("hi"); return g; }
`)
	shoff := binary.LittleEndian.Uint32(obj[32:36])
	shdr := obj[shoff:]
	relaSize := binary.LittleEndian.Uint32(shdr[4*40+20:])
	if relaSize == 0 {
		t.Fatal("expected at least one relocation for the global and the string literal")
	}
	if relaSize%12 != 0 {
		t.Fatalf("rela section size %d is not a multiple of the 12-byte relocation entry stride", relaSize)
	}
}

func TestELFExternalFunctionGetsJmpSlot(t *testing.T) {
	obj := buildObj(t, `
int external_fn();
int main() { return external_fn(); }
`)
	shoff := binary.LittleEndian.Uint32(obj[32:36])
	shdr := obj[shoff:]
	relaOff := binary.LittleEndian.Uint32(shdr[4*40+16:])
	relaSize := binary.LittleEndian.Uint32(shdr[4*40+20:])
	rels := obj[relaOff : relaOff+relaSize]
	foundJmpSlot := false
	for i := 0; i+12 <= len(rels); i += 12 {
		info := binary.LittleEndian.Uint32(rels[i+4:])
		if info&0xff == relJmpSlot {
			foundJmpSlot = true
		}
	}
	if !foundJmpSlot {
		t.Fatal("expected a R_XTENSA_JMP_SLOT relocation for the undefined function")
	}
}

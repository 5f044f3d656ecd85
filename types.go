// Completion: 100% - Type system complete
package main

// TypeFlags is the bitmask type system described in spec §3/§4.3. Base
// type forms are themselves just combinations of the BYTE/PTR/ARR bits;
// GLOBAL and CONST are orthogonal flags OR'd on top when a variable
// entry is stored.
type TypeFlags int

const (
	tfByte   TypeFlags = 1
	tfPtr    TypeFlags = 2
	tfArr    TypeFlags = 4
	tfGlobal TypeFlags = 8
	tfConst  TypeFlags = 16
)

// The six base type forms from spec §4.3, expressed as TF_* combinations.
const (
	tyInt     TypeFlags = 0
	tyByte    TypeFlags = tfByte
	tyIntPtr  TypeFlags = tfPtr
	tyBytePtr TypeFlags = tfByte | tfPtr
	tyIntArr  TypeFlags = tfArr
	tyByteArr TypeFlags = tfArr | tfByte
)

func (t TypeFlags) isByte() bool   { return t&tfByte != 0 }
func (t TypeFlags) isPtr() bool    { return t&tfPtr != 0 }
func (t TypeFlags) isArr() bool    { return t&tfArr != 0 }
func (t TypeFlags) isGlobal() bool { return t&tfGlobal != 0 }
func (t TypeFlags) isConst() bool  { return t&tfConst != 0 }

// base strips the GLOBAL flag, leaving one of the six TY_* forms (CONST
// is only ever combined with tyInt, so base() never needs to strip it
// for the call sites that use it).
func (t TypeFlags) base() TypeFlags { return t &^ tfGlobal }

// elemSize returns the byte width of one element of an array/pointer's
// target type: 1 for byte arrays/pointers, 4 for int arrays/pointers.
// Used by index scaling (spec §4.3: "scales e by 4 for int arrays/
// pointers and by 1 for byte arrays/pointers").
func (t TypeFlags) elemSize() int {
	if t.isByte() {
		return 1
	}
	return 4
}

// Completion: 100% - Parser and code generator complete
package main

// Compiler drives lexing, parsing, and code generation together in a
// single pass: there is no intermediate AST, so every parse production
// below both consumes tokens and emits instructions as it goes (spec
// §4.6).
type Compiler struct {
	lex *Lexer
	sym *SymbolTable
	em  *Emitter

	rodata  []byte
	bssSize int

	locals   int // current function's running local-frame byte offset
	esp      int // current statement's expression-stack depth
	exprType TypeFlags
}

func NewCompiler(src []byte) *Compiler {
	return &Compiler{
		lex: NewLexer(src),
		sym: NewSymbolTable(),
		em:  NewEmitter(),
	}
}

func align4(x int) int  { return (x + 3) &^ 3 }
func align16(x int) int { return (x + 15) &^ 15 }

// maxLocalFrame mirrors MAX_LOCAL_VARS*4 (spec §3); the placeholder
// ENTRY frame reserves this much plus the 32-byte save area before
// being backpatched down to the function's real footprint.
const maxLocalFrame = maxLocalVars * 4

// Compile runs the whole unit: starting from the first token (already
// lexed by NewLexer), parse top-level constructs until EOF (spec §4.6, mirrors xcc700.c's main
// loop: "next(); while(token!=T_EOF) parse_func();").
func (c *Compiler) Compile() error {
	for c.lex.Token.Type != TEOF {
		if err := c.parseFunc(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) tok() TokenType { return c.lex.Token.Type }
func (c *Compiler) line() int      { return c.lex.Token.Line }

// getPrec maps a binary operator token to its precedence level, 0 if
// the token isn't one (spec §4.6 "Operator precedence table").
func getPrec(t TokenType) int {
	switch t {
	case '?':
		return 1
	case TLor:
		return 2
	case TLand:
		return 3
	case '|':
		return 4
	case '^':
		return 5
	case '&':
		return 6
	case TEq, TNe:
		return 7
	case '<', '>', TLe, TGe:
		return 8
	case TShl, TShr:
		return 9
	case '+', '-':
		return 10
	case '*', '/', '%':
		return 11
	default:
		return 0
	}
}

// emitBinop finishes a binary operation: TMP_REG holds the left operand,
// RES_REG the right, per the convention parseExpr sets up before calling
// this (spec §4.6 "Binary operator emission"). && and || are evaluated
// non-short-circuit: both sides are normalized to 0/1 first and then
// combined with a bitwise AND/OR, a deliberate quirk preserved from the
// source rather than "fixed" to short-circuit.
func (c *Compiler) emitBinop(op TokenType) {
	e := c.em
	switch {
	case op == TLand || op == TLor:
		e.MoviN(regArg1, 0)
		e.Beqz(regTmp, 1)
		e.MoviN(regArg1, 1)
		e.MoviN(11, 0)
		e.Beqz(regRes, 1)
		e.MoviN(11, 1)
		if op == TLand {
			e.op(0x10, regRes, 11, regArg1)
		} else {
			e.op(0x20, regRes, 11, regArg1)
		}
	case getPrec(op) >= 7 && getPrec(op) <= 8:
		e.MovN(regArg1, regRes)
		e.MoviN(regRes, 0)
		switch op {
		case '<':
			e.Br(0xa, regTmp, regArg1)
		case TLe:
			e.Br(0x2, regArg1, regTmp)
		case '>':
			e.Br(0xa, regArg1, regTmp)
		case TGe:
			e.Br(0x2, regTmp, regArg1)
		case TEq:
			e.Br(0x9, regTmp, regArg1)
		case TNe:
			e.Br(0x1, regTmp, regArg1)
		}
		e.MoviN(regRes, 1)
	case op == '+':
		e.AddN(regRes, regTmp, regRes)
	case op == '-':
		e.op(0xc0, regRes, regTmp, regRes)
	case op == '*':
		e.op(0x82, regRes, regTmp, regRes)
	case op == '/':
		e.op(0xd2, regRes, regTmp, regRes)
	case op == '%':
		e.op(0xf2, regRes, regTmp, regRes)
	case op == '&':
		e.op(0x10, regRes, regTmp, regRes)
	case op == '|':
		e.op(0x20, regRes, regTmp, regRes)
	case op == '^':
		e.op(0x30, regRes, regTmp, regRes)
	case op == TShl:
		e.Shl(regRes, regTmp)
	case op == TShr:
		e.Shr(regRes, regTmp)
	}
	c.exprType = tyInt
}

// parseExpr implements precedence climbing across the 11 levels (spec
// §4.6). The ternary operator is handled inline rather than through
// emitBinop since it needs branch patches instead of a single opcode.
func (c *Compiler) parseExpr(limit int) error {
	if err := c.parseFactor(); err != nil {
		return err
	}
	for getPrec(c.tok()) >= limit {
		op := c.tok()
		c.lex.Next()
		if op == '?' {
			patchToFalse := c.em.Code.Len()
			c.em.Beqz(regRes, 0)
			if err := c.parseExpr(2); err != nil {
				return err
			}
			patchToEnd := c.em.Code.Len()
			c.em.J(0)
			if err := c.lex.Expect(TokenType(':')); err != nil {
				return err
			}
			c.em.Patch(patchToFalse, false)
			if err := c.parseExpr(1); err != nil {
				return err
			}
			c.em.Patch(patchToEnd, true)
		} else {
			c.em.Push(regRes, c.locals, c.esp)
			c.esp += 4
			if err := c.parseExpr(getPrec(op) + 1); err != nil {
				return err
			}
			c.esp -= 4
			c.em.Pop(regTmp, c.locals, c.esp)
			c.emitBinop(op)
		}
	}
	return nil
}

// parseCall parses a call's argument list, evaluates each argument onto
// the expression stack, then pops them back out into a10..a14 in
// reverse order before issuing CALLX8 (spec §4.6 "Call sequence"). The
// five-argument cap is enforced once the full list is known; the
// original source checked it mid-loop in a way that could never fire,
// a bug this implementation does not reproduce (see DESIGN.md).
func (c *Compiler) parseCall(name string) error {
	argCnt := 0
	c.lex.Next()
	if c.tok() != ')' {
		for {
			if err := c.parseExpr(1); err != nil {
				return err
			}
			c.em.Push(regRes, c.locals, c.esp)
			c.esp += 4
			argCnt++
			if c.tok() != ',' {
				break
			}
			c.lex.Next()
		}
		if argCnt > 5 {
			return errf(c.line(), "call to %s: argument count exceeds the supported maximum of 5", name)
		}
		for argCnt > 0 {
			argCnt--
			c.esp -= 4
			c.em.Pop(argRegs[argCnt], c.locals, c.esp)
		}
	}
	if err := c.lex.Expect(TokenType(')')); err != nil {
		return err
	}
	fn := c.sym.GetFunc(name)
	fnIdx := c.funcIndex(fn)
	if err := c.em.LoadLit(fnIdx, LitFunc); err != nil {
		return err
	}
	c.em.CallX8()
	return nil
}

// funcIndex finds fn's position in the function table by pointer
// identity; the literal pool needs an index (to re-resolve the address
// later, once it may be known) rather than the function's own Addr.
func (c *Compiler) funcIndex(fn *Function) int {
	for i := range c.sym.Funcs {
		if &c.sym.Funcs[i] == fn {
			return i
		}
	}
	return -1
}

func (c *Compiler) loadVarAddress(v *Variable) error {
	if v.Type.isGlobal() {
		return c.em.LoadLit(v.Addr, LitBSS)
	}
	return c.em.ADDI(regRes, regSP, v.Addr)
}

func (c *Compiler) loadVar(v *Variable) error {
	ty := v.Type
	isByte := ty.base() == tyByte
	switch {
	case ty.isConst():
		if err := c.em.MOVI(regRes, v.Addr); err != nil {
			return err
		}
		c.exprType = tyInt
	case ty.isArr():
		if err := c.loadVarAddress(v); err != nil {
			return err
		}
		if ty.isByte() {
			c.exprType = tyBytePtr
		} else {
			c.exprType = tyIntPtr
		}
	case ty.isGlobal():
		if err := c.loadVarAddress(v); err != nil {
			return err
		}
		if isByte {
			c.em.L8UI(regRes, regRes, 0)
		} else {
			c.em.L32I(regRes, regRes, 0)
		}
		c.exprType = ty.base()
	default:
		if isByte {
			c.em.L8UI(regRes, regSP, v.Addr)
		} else {
			c.em.L32I(regRes, regSP, v.Addr)
		}
		c.exprType = ty.base()
	}
	return nil
}

// parseIndex parses "[ expr ]" against an already-loaded base address
// in RES_REG, scaling the index by the element size and adding it back
// in, leaving the element's address in RES_REG (spec §4.6 "Array
// indexing").
func (c *Compiler) parseIndex(baseType TypeFlags) error {
	c.lex.Next()
	c.em.Push(regRes, c.locals, c.esp)
	c.esp += 4
	if err := c.parseExpr(1); err != nil {
		return err
	}
	if err := c.lex.Expect(TokenType(']')); err != nil {
		return err
	}
	if baseType.elemSize() == 4 {
		c.em.AddN(regRes, regRes, regRes)
		c.em.AddN(regRes, regRes, regRes)
	}
	c.esp -= 4
	c.em.Pop(regTmp, c.locals, c.esp)
	c.em.AddN(regRes, regTmp, regRes)
	return nil
}

// parseFactor parses one unary-level operand: prefix ++/--, unary
// !/~/-, dereference, address-of, a literal, or a primary identifier
// (variable load, call, or array index), per spec §4.6.
func (c *Compiler) parseFactor() error {
	switch c.tok() {
	case TInc, TDec:
		diff := 1
		if c.tok() == TDec {
			diff = -1
		}
		c.lex.Next()
		name := c.lex.Token.StrVal
		if err := c.lex.Expect(TIdent); err != nil {
			return err
		}
		v := c.sym.FindVar(name)
		if v == nil {
			return errf(c.line(), "undefined variable: %s", name)
		}
		if err := c.loadVar(v); err != nil {
			return err
		}
		if err := c.em.ADDI(regRes, regRes, diff); err != nil {
			return err
		}
		isByte := v.Type.base() == tyByte
		if v.Type.isGlobal() {
			c.em.MovN(regArg1, regRes)
			if err := c.loadVarAddress(v); err != nil {
				return err
			}
			if isByte {
				c.em.S8I(regArg1, regRes, 0)
			} else {
				c.em.S32I(regArg1, regRes, 0)
			}
			c.em.MovN(regRes, regArg1)
		} else {
			if isByte {
				c.em.S8I(regRes, regSP, v.Addr)
			} else {
				c.em.S32I(regRes, regSP, v.Addr)
			}
		}
		c.exprType = tyInt
		return nil

	case '!', '~', '-':
		op := c.tok()
		c.lex.Next()
		if err := c.parseFactor(); err != nil {
			return err
		}
		switch op {
		case '-':
			c.em.Neg(regRes, regRes)
		case '~':
			if err := c.em.MOVI(regTmp, -1); err != nil {
				return err
			}
			c.em.Xor(regRes, regRes, regTmp)
		default: // '!'
			c.em.MoviN(regTmp, 1)
			c.em.Beqz(regRes, 1)
			c.em.MoviN(regTmp, 0)
			c.em.MovN(regRes, regTmp)
		}
		c.exprType = tyInt
		return nil

	case '*':
		c.lex.Next()
		if err := c.parseFactor(); err != nil {
			return err
		}
		pt := c.exprType
		if pt.isByte() {
			c.em.L8UI(regRes, regRes, 0)
			c.exprType = tyByte
		} else {
			c.em.L32I(regRes, regRes, 0)
			c.exprType = tyInt
		}
		return nil

	case '&':
		c.lex.Next()
		name := c.lex.Token.StrVal
		if err := c.lex.Expect(TIdent); err != nil {
			return err
		}
		v := c.sym.FindVar(name)
		if v == nil {
			return errf(c.line(), "undefined variable: %s", name)
		}
		if err := c.loadVarAddress(v); err != nil {
			return err
		}
		if v.Type.isByte() {
			c.exprType = tyBytePtr
		} else {
			c.exprType = tyIntPtr
		}
		return nil

	case TNum:
		val := c.lex.Token.NumVal
		c.lex.Next()
		if err := c.em.MOVI(regRes, val); err != nil {
			return err
		}
		c.exprType = tyInt
		return nil

	case TStr:
		s := c.lex.Token.StrVal
		off := len(c.rodata)
		if err := c.em.LoadLit(off, LitStr); err != nil {
			return err
		}
		c.rodata = append(c.rodata, s...)
		c.rodata = append(c.rodata, 0)
		c.exprType = tyBytePtr
		c.lex.Next()
		return nil

	case TIdent:
		name := c.lex.Token.StrVal
		c.lex.Next()
		if c.tok() == '(' {
			if err := c.parseCall(name); err != nil {
				return err
			}
			c.em.MovN(regRes, regArg1)
			c.exprType = tyInt
			return nil
		}
		v := c.sym.FindVar(name)
		if v == nil {
			return errf(c.line(), "undefined variable: %s", name)
		}
		if err := c.loadVar(v); err != nil {
			return err
		}
		if c.tok() == '[' {
			bt := c.exprType
			if err := c.parseIndex(bt); err != nil {
				return err
			}
			if bt.isByte() {
				c.em.L8UI(regRes, regRes, 0)
				c.exprType = tyByte
			} else {
				c.em.L32I(regRes, regRes, 0)
				c.exprType = tyInt
			}
		}
		return nil

	case '(':
		c.lex.Next()
		if err := c.parseExpr(1); err != nil {
			return err
		}
		return c.lex.Expect(TokenType(')'))

	default:
		return errf(c.line(), "unexpected token in expression")
	}
}

// parseStmt parses one statement, emitting code as it goes (spec §4.6).
// esp is reset at the top of every statement: the expression stack
// never needs to carry depth across statement boundaries.
func (c *Compiler) parseStmt() error {
	c.esp = 0
	switch c.tok() {
	case TWhile:
		c.lex.Next()
		loopStart := c.em.Code.Len()
		if err := c.lex.Expect(TokenType('(')); err != nil {
			return err
		}
		if err := c.parseExpr(1); err != nil {
			return err
		}
		if err := c.lex.Expect(TokenType(')')); err != nil {
			return err
		}
		exitPatch := c.em.Code.Len()
		c.em.Beqz(regRes, 0)
		if err := c.parseStmt(); err != nil {
			return err
		}
		c.em.J(loopStart - c.em.Code.Len() - 4)
		c.em.Patch(exitPatch, false)
		return nil

	case TIf:
		c.lex.Next()
		if err := c.lex.Expect(TokenType('(')); err != nil {
			return err
		}
		if err := c.parseExpr(1); err != nil {
			return err
		}
		if err := c.lex.Expect(TokenType(')')); err != nil {
			return err
		}
		p1 := c.em.Code.Len()
		c.em.Beqz(regRes, 0)
		if err := c.parseStmt(); err != nil {
			return err
		}
		if c.tok() == TElse {
			p2 := c.em.Code.Len()
			c.em.J(0)
			c.em.Patch(p1, false)
			c.lex.Next()
			if err := c.parseStmt(); err != nil {
				return err
			}
			c.em.Patch(p2, true)
		} else {
			c.em.Patch(p1, false)
		}
		return nil

	case '{':
		c.lex.Next()
		for c.tok() != '}' && c.tok() != TEOF {
			if err := c.parseStmt(); err != nil {
				return err
			}
		}
		return c.lex.Expect(TokenType('}'))

	case TInt, TChar:
		isByte := c.tok() == TChar
		c.lex.Next()
		isPtr := false
		for c.tok() == '*' {
			isPtr = true
			c.lex.Next()
		}
		name := c.lex.Token.StrVal
		addr := c.locals
		if err := c.lex.Expect(TIdent); err != nil {
			return err
		}
		if c.tok() == '[' {
			c.lex.Next()
			sz := c.lex.Token.NumVal
			if err := c.lex.Expect(TNum); err != nil {
				return err
			}
			if err := c.lex.Expect(TokenType(']')); err != nil {
				return err
			}
			ty := tyIntArr
			if isByte {
				ty = tyByteArr
			}
			if _, err := c.sym.AddVar(name, ty, addr, sz); err != nil {
				return err
			}
			if isByte {
				c.locals += align4(sz)
			} else {
				c.locals += sz * 4
			}
		} else {
			var ty TypeFlags
			switch {
			case isPtr && isByte:
				ty = tyBytePtr
			case isPtr:
				ty = tyIntPtr
			case isByte:
				ty = tyByte
			default:
				ty = tyInt
			}
			if _, err := c.sym.AddVar(name, ty, addr, 1); err != nil {
				return err
			}
			c.locals += 4
			if err := c.lex.Expect(TokenType('=')); err != nil {
				return err
			}
			if err := c.parseExpr(1); err != nil {
				return err
			}
			if isByte && !isPtr {
				c.em.S8I(regRes, regSP, addr)
			} else {
				c.em.S32I(regRes, regSP, addr)
			}
		}
		if c.locals >= maxLocalFrame {
			return errf(c.line(), "function stack frame exceeded the local variable limit")
		}
		c.sym.NoteLocalOffset(c.locals)
		return c.lex.Expect(TokenType(';'))

	case TReturn:
		c.lex.Next()
		if c.tok() != ';' {
			if err := c.parseExpr(1); err != nil {
				return err
			}
		} else {
			c.em.MoviN(regRes, 0)
		}
		c.em.MovN(2, regRes)
		c.em.RetwN()
		return c.lex.Expect(TokenType(';'))

	case TIdent:
		name := c.lex.Token.StrVal
		c.lex.Next()
		if c.tok() == '(' {
			if err := c.parseCall(name); err != nil {
				return err
			}
			return c.lex.Expect(TokenType(';'))
		}
		v := c.sym.FindVar(name)
		if v == nil {
			return errf(c.line(), "undefined variable: %s", name)
		}
		if c.tok() == '[' {
			if err := c.loadVar(v); err != nil {
				return err
			}
			bt := c.exprType
			if err := c.parseIndex(bt); err != nil {
				return err
			}
			c.em.Push(regRes, c.locals, c.esp)
			c.esp += 4
			if err := c.lex.Expect(TokenType('=')); err != nil {
				return err
			}
			if err := c.parseExpr(1); err != nil {
				return err
			}
			c.esp -= 4
			c.em.Pop(regArg1, c.locals, c.esp)
			if bt.isByte() {
				c.em.S8I(regRes, regArg1, 0)
			} else {
				c.em.S32I(regRes, regArg1, 0)
			}
		} else {
			if err := c.lex.Expect(TokenType('=')); err != nil {
				return err
			}
			if err := c.parseExpr(1); err != nil {
				return err
			}
			if v.Type.isGlobal() {
				c.em.MovN(regArg1, regRes)
				if err := c.em.LoadLit(v.Addr, LitBSS); err != nil {
					return err
				}
				c.em.S32I(regArg1, regRes, 0)
				c.em.MovN(regRes, regArg1)
			} else {
				c.em.S32I(regRes, regSP, v.Addr)
			}
		}
		return c.lex.Expect(TokenType(';'))

	case '*':
		c.lex.Next()
		if err := c.parseFactor(); err != nil {
			return err
		}
		pt := c.exprType
		c.em.Push(regRes, c.locals, c.esp)
		c.esp += 4
		if err := c.lex.Expect(TokenType('=')); err != nil {
			return err
		}
		if err := c.parseExpr(1); err != nil {
			return err
		}
		c.esp -= 4
		c.em.Pop(regArg1, c.locals, c.esp)
		if pt.isByte() {
			c.em.S8I(regRes, regArg1, 0)
		} else {
			c.em.S32I(regRes, regArg1, 0)
		}
		return c.lex.Expect(TokenType(';'))

	default:
		if err := c.parseExpr(1); err != nil {
			return err
		}
		return c.lex.Expect(TokenType(';'))
	}
}

// parseFunc parses one top-level construct: an enum block, a global
// variable/array declaration, a function prototype, or a function
// definition (spec §4.6 "Top-level dispatch").
func (c *Compiler) parseFunc() error {
	if c.tok() == TEnum {
		return c.parseEnum()
	}

	isByte := c.tok() == TChar
	if c.tok() == TInt || c.tok() == TChar || c.tok() == TVoid {
		c.lex.Next()
	}
	isPtr := false
	for c.tok() == '*' {
		isPtr = true
		c.lex.Next()
	}
	name := c.lex.Token.StrVal
	if err := c.lex.Expect(TIdent); err != nil {
		return err
	}

	if c.tok() == ';' || c.tok() == '[' {
		return c.parseGlobal(name, isByte, isPtr)
	}

	return c.parseFuncTail(name)
}

func (c *Compiler) parseEnum() error {
	c.lex.Next()
	if c.tok() == TIdent {
		c.lex.Next()
	}
	if err := c.lex.Expect(TokenType('{')); err != nil {
		return err
	}
	val := 0
	for c.tok() == TIdent {
		name := c.lex.Token.StrVal
		c.lex.Next()
		if c.tok() == '=' {
			c.lex.Next()
			val = c.lex.Token.NumVal
			c.lex.Next()
		}
		if _, err := c.sym.AddVar(name, tfGlobal|tfConst|tyInt, val, 1); err != nil {
			return err
		}
		val++
		if c.tok() == ',' {
			c.lex.Next()
		}
	}
	if err := c.lex.Expect(TokenType('}')); err != nil {
		return err
	}
	return c.lex.Expect(TokenType(';'))
}

func (c *Compiler) parseGlobal(name string, isByte, isPtr bool) error {
	ty := tfGlobal
	switch {
	case isPtr && isByte:
		ty |= tyBytePtr
	case isPtr:
		ty |= tyIntPtr
	case isByte:
		ty |= tyByte
	default:
		ty |= tyInt
	}
	var addr, size int
	if c.tok() == '[' {
		c.lex.Next()
		switch c.tok() {
		case TNum:
			size = c.lex.Token.NumVal
			c.lex.Next()
		case TIdent:
			cname := c.lex.Token.StrVal
			v := c.sym.FindVar(cname)
			if v == nil || !v.Type.isConst() {
				return errf(c.line(), "undefined constant: %s", cname)
			}
			size = v.Addr
			c.lex.Next()
		default:
			return errf(c.line(), "array size expected")
		}
		if err := c.lex.Expect(TokenType(']')); err != nil {
			return err
		}
		if isByte {
			ty = tfGlobal | tyByteArr
		} else {
			ty = tfGlobal | tyIntArr
		}
		addr = c.bssSize
		if ty.isByte() {
			c.bssSize += align4(size)
		} else {
			c.bssSize += size * 4
		}
	} else {
		addr = c.bssSize
		c.bssSize += 4
		size = 1
	}
	if _, err := c.sym.AddVar(name, ty, addr, size); err != nil {
		return err
	}
	return c.lex.Expect(TokenType(';'))
}

// parseFuncTail parses a function's parameter list and, if a body
// follows, its definition; a bare ");" is a prototype with no body
// (spec §4.6 "Function signatures").
func (c *Compiler) parseFuncTail(name string) error {
	if err := c.lex.Expect(TokenType('(')); err != nil {
		return err
	}
	c.sym.EnterFunction()
	c.locals = 32 // mandatory windowed-ABI save area
	c.sym.NoteLocalOffset(c.locals)
	nArgs := 0
	for c.tok() != ')' {
		isByte := false
		ptrCount := 0
		switch c.tok() {
		case TChar:
			isByte = true
			c.lex.Next()
		case TInt, TVoid, TIdent, TEllipsis:
			c.lex.Next()
		}
		for c.tok() == '*' {
			ptrCount++
			c.lex.Next()
		}
		if c.tok() == TIdent {
			pname := c.lex.Token.StrVal
			var ty TypeFlags
			switch {
			case ptrCount >= 2:
				ty = tyIntPtr
			case ptrCount == 1 && isByte:
				ty = tyBytePtr
			case ptrCount == 1:
				ty = tyIntPtr
			case isByte:
				ty = tyByte
			default:
				ty = tyInt
			}
			if _, err := c.sym.AddVar(pname, ty, c.locals, 1); err != nil {
				return err
			}
			c.locals += 4
			c.sym.NoteLocalOffset(c.locals)
			nArgs++
			c.lex.Next()
		}
		if c.tok() == ',' {
			c.lex.Next()
		}
	}
	if err := c.lex.Expect(TokenType(')')); err != nil {
		return err
	}
	if c.tok() == ';' {
		c.lex.Next()
		return nil // prototype only
	}

	fn := c.sym.GetFunc(name)
	fn.Defined = true
	fn.Addr = c.em.Code.Len()
	fn.NArgs = nArgs

	if err := c.lex.Expect(TokenType('{')); err != nil {
		return err
	}
	placeholderSize := align16(maxLocalFrame + 32)
	entryAddr := c.em.Entry(placeholderSize)
	argBase := len(c.sym.Vars) - nArgs
	for j := 0; j < nArgs; j++ {
		c.em.S32I(2+j, regSP, c.sym.Vars[argBase+j].Addr)
	}
	for c.tok() != '}' && c.tok() != TEOF {
		if err := c.parseStmt(); err != nil {
			return err
		}
	}
	frameSize := align16(c.sym.FrameSize() + 32)
	c.em.PatchEntry(entryAddr, frameSize)
	c.em.RetwN()
	return c.lex.Expect(TokenType('}'))
}

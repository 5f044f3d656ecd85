// Completion: 100% - CLI interface complete
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/xyproto/env/v2"
)

const versionString = "xcc700 1.0.0"

// VerboseMode gates extra diagnostic output; the watch-mode file
// watchers also consult it directly rather than threading a logger
// through.
var VerboseMode bool

func main() {
	var (
		outShort    = flag.String("o", "", "output object file (default $XCC_OUTPUT, else output.elf)")
		outLong     = flag.String("output", "", "output object file (default $XCC_OUTPUT, else output.elf)")
		verbose     = flag.Bool("v", false, "verbose mode (default from $XCC_VERBOSE)")
		verboseLong = flag.Bool("verbose", false, "verbose mode (default from $XCC_VERBOSE)")
		version     = flag.Bool("V", false, "print version information and exit")
		versionLong = flag.Bool("version", false, "print version information and exit")
		watch       = flag.Bool("watch", false, "recompile whenever the input file changes")
	)
	flag.Parse()

	if *version || *versionLong {
		fmt.Println(versionString)
		return
	}

	VerboseMode = *verbose || *verboseLong || env.Bool("XCC_VERBOSE")

	inputFname := "input.c"
	if flag.NArg() > 0 {
		inputFname = flag.Arg(0)
	}

	outputFname := env.Str("XCC_OUTPUT", "output.elf")
	switch {
	case *outShort != "":
		outputFname = *outShort
	case *outLong != "":
		outputFname = *outLong
	}

	if err := compileOnce(inputFname, outputFname); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *watch {
		runWatch(inputFname, outputFname)
	}
}

// compileOnce lexes, parses, code-generates, and writes one object file
// for inputFname, then prints the build summary (spec §6 "print_stats").
func compileOnce(inputFname, outputFname string) error {
	src, err := os.ReadFile(inputFname)
	if err != nil {
		return errNoLine("cannot open input file: %s", inputFname)
	}

	start := time.Now()
	c := NewCompiler(src)
	if err := c.Compile(); err != nil {
		return err
	}
	durationMs := int(time.Since(start).Milliseconds())

	obj, err := NewELFWriter(c).Build()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFname, obj, 0644); err != nil {
		return errNoLine("cannot open output file: %s", outputFname)
	}

	printStats(c, len(obj), durationMs)
	return nil
}

// printStats reproduces the source's build banner exactly (spec §6).
func printStats(c *Compiler, fileSize, durationMs int) {
	line := c.lex.Token.Line
	speed := 0
	if durationMs > 0 {
		speed = (line * 1000) / durationMs
	}
	fmt.Println()
	fmt.Println("[ xcc700 ] BUILD COMPLETED > OK")
	fmt.Printf("> IN  : %d Lines / %d Tokens\n", line, c.lex.TokenCnt)
	fmt.Printf("> SYM : %d Funcs / %d Globals\n", len(c.sym.Funcs), c.sym.NGlobals)
	fmt.Printf("> REL : %d Literals / %d Patches\n", len(c.em.Lits.Lits), len(c.em.Lits.Patches))
	fmt.Printf("> MEM : %d B .rodata / %d B .bss\n", len(c.rodata), c.bssSize)
	fmt.Printf("> OUT : %d B .text / %d B ELF\n", c.em.Code.Len(), fileSize)
	fmt.Printf("[ %d ms ] >> %d Lines/sec <<\n", durationMs, speed)
}

// runWatch recompiles inputFname whenever it changes, printing errors
// without exiting so the watch loop survives a bad edit.
func runWatch(inputFname, outputFname string) {
	fmt.Printf("xcc700: watching %s\n", inputFname)
	w, err := NewSourceWatcher(inputFname, func(path string) {
		if err := compileOnce(path, outputFname); err != nil {
			fmt.Println(err)
		}
	})
	if err != nil {
		fmt.Printf("xcc700: watch disabled: %v\n", err)
		return
	}
	defer w.Close()
	w.Run()
}

// mc4c - a single-pass compiler for a small C-like byte-typed
// imperative language, targeting a minimal 4-bit-register/8-bit-memory
// machine.
//
// Usage: mc4c -i <path> [-o <path>] [-l <level>]
//
// Flags:
//
//	-i, --input    source file to compile (required)
//	-o, --output   target instruction listing output path (default ./output.txt)
//	-l, --logLevel 0-5 or NONE|ERROR|WARN|INFO|INFO_MEDIUM_LEVEL|INFO_LOW_LEVEL
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/gmofishsauce/mc4c/internal/asmgen"
	"github.com/gmofishsauce/mc4c/internal/compiler"
	"github.com/gmofishsauce/mc4c/internal/config"
	"github.com/gmofishsauce/mc4c/internal/logging"
	"github.com/gmofishsauce/mc4c/internal/tac"
)

var Description = strings.ReplaceAll(`
mc4c compiles a single source file written in mc4c's small C-like
byte-typed imperative language, emitting a flat listing of target
instructions for the 4-bit-register/8-bit-memory machine described in
the language spec.
`, "\n", " ")

// teris-io/cli (see its-hmny-nand2tetris/code/cmd/vm_translator/main.go)
// builds each option from NewOption with a long --name; WithChar adds the
// one-letter alias, so -i/-o/-l and --input/--output/--logLevel both work.
var Mc4c = cli.New(Description).
	WithOption(cli.NewOption("input", "Source file to compile").WithChar('i').WithType(cli.TypeString)).
	WithOption(cli.NewOption("output", "Target instruction listing output path").WithChar('o').WithType(cli.TypeString)).
	WithOption(cli.NewOption("logLevel", "0-5 or NONE|ERROR|WARN|INFO|INFO_MEDIUM_LEVEL|INFO_LOW_LEVEL").WithChar('l').WithType(cli.TypeString)).
	WithAction(Handler)

// Handler runs one compile and returns mc4c's exit code: 0 on success,
// -1 on any failure (missing required flag or any of the five stage
// errors; spec §6).
func Handler(args []string, options map[string]string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mc4c: %v\n", err)
		return -1
	}

	input := options["input"]
	if input == "" {
		fmt.Fprintf(os.Stderr, "mc4c: -i/--input is required\n")
		return -1
	}

	output := options["output"]
	if output == "" {
		output = cfg.Output.Path
	}

	levelStr := options["logLevel"]
	if levelStr == "" {
		levelStr = cfg.Compiler.LogLevel
	}
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		fmt.Fprintf(os.Stderr, "mc4c: invalid -l/--logLevel value %q\n", levelStr)
		return -1
	}
	log := logging.NewStderr(level)

	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mc4c: reading %s: %v\n", input, err)
		return -1
	}

	result, err := compiler.New(log, cfg.Compiler.MemoryBase).Compile(string(source))
	if err != nil {
		log.Error("compilation failed: %v", err)
		return -1
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mc4c: creating %s: %v\n", output, err)
		return -1
	}
	defer out.Close()

	emitter := asmgen.NewEmitter(out)
	if err := emitter.Emit(result.Target); err != nil {
		fmt.Fprintf(os.Stderr, "mc4c: writing %s: %v\n", output, err)
		return -1
	}
	if err := emitter.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "mc4c: writing %s: %v\n", output, err)
		return -1
	}

	if cfg.Output.EmitTac {
		if err := writeTacDump(output+".tac", result.Tac); err != nil {
			fmt.Fprintf(os.Stderr, "mc4c: %v\n", err)
			return -1
		}
	}

	return 0
}

// writeTacDump writes one TAC instruction per line to path. Handler calls
// it only when cfg.Output.EmitTac is set (spec §4.7.3).
func writeTacDump(path string, tacList []*tac.Instruction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	for _, instr := range tacList {
		if _, err := fmt.Fprintln(f, instr); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func main() { os.Exit(Mc4c.Run(os.Args, os.Stdout)) }

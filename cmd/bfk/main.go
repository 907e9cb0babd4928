// bfk CLI - parses tape programs and runs them against stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/bfk/interp"
	"github.com/chazu/bfk/manifest"
	"github.com/chazu/bfk/store"
	"github.com/chazu/bfk/wire"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("bfk")

func main() {
	code := flag.String("e", "", "Provide the program on the command line rather than as a file")
	named := flag.String("m", "", "Run a named program from the nearest bfk.toml manifest")
	disasm := flag.Bool("d", false, "Print a disassembly listing instead of running")
	compileOut := flag.String("o", "", "Compile to the given .bfc file instead of running")
	cachePath := flag.String("cache", "", "Consult a compile cache at the given path")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bfk [options] {-e PROGRAM | -m NAME | FILE}\n\n")
		fmt.Fprintf(os.Stderr, "Runs a tape program with input and output connected to stdin/stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bfk hello.b               # Run a source file\n")
		fmt.Fprintf(os.Stderr, "  bfk -e '++.'              # Run an inline program\n")
		fmt.Fprintf(os.Stderr, "  bfk -m hello              # Run a program named in bfk.toml\n")
		fmt.Fprintf(os.Stderr, "  bfk -d hello.b            # Disassemble instead of running\n")
		fmt.Fprintf(os.Stderr, "  bfk -o hello.bfc hello.b  # Compile without running\n")
		fmt.Fprintf(os.Stderr, "  bfk hello.bfc             # Run a compiled program\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(1, nil)
	}

	sources := 0
	if *code != "" {
		sources++
	}
	if *named != "" {
		sources++
	}
	if flag.NArg() > 0 {
		sources++
	}
	if sources != 1 || flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*code, *named, flag.Args(), *disasm, *compileOut, *cachePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(code, named string, args []string, disasm bool, compileOut, cachePath string) error {
	prog, name, err := loadProgram(code, named, args, cachePath)
	if err != nil {
		return err
	}
	log.Infof("loaded %q: %d instructions, %d loop pairs", name, prog.Len(), prog.LoopPairs())

	if compileOut != "" {
		if err := wire.WriteFile(compileOut, prog); err != nil {
			return err
		}
		log.Infof("compiled %q to %s", name, compileOut)
		return nil
	}

	if disasm {
		fmt.Print(prog.DisassembleWithName(name))
		return nil
	}

	m := interp.New(prog, os.Stdin, os.Stdout)
	if err := m.Run(); err != nil {
		return err
	}
	log.Infof("%q halted", name)
	return nil
}

// loadProgram resolves the program selection to a parsed program and a
// display name. Exactly one of code, named, or args is set by the time
// this is called.
func loadProgram(code, named string, args []string, cachePath string) (*interp.Program, string, error) {
	if code != "" {
		prog, err := interp.Parse([]byte(code))
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse program: %w", err)
		}
		return prog, "<inline>", nil
	}

	path := ""
	if named != "" {
		m, err := manifest.FindAndLoad(".")
		if err != nil {
			return nil, "", err
		}
		if m == nil {
			return nil, "", fmt.Errorf("no bfk.toml manifest found for program %q", named)
		}
		path, err = m.Resolve(named)
		if err != nil {
			return nil, "", err
		}
	} else {
		path = args[0]
	}

	if strings.HasSuffix(path, ".bfc") {
		prog, err := wire.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return prog, path, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error opening input file: %w", err)
	}

	if cachePath != "" {
		prog, err := loadCached(cachePath, source)
		if err != nil {
			return nil, "", err
		}
		return prog, path, nil
	}

	prog, err := interp.Parse(source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return prog, path, nil
}

// loadCached returns the compiled program for source from the cache,
// parsing and indexing it on a miss.
func loadCached(cachePath string, source []byte) (*interp.Program, error) {
	s, err := store.Open(cachePath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if prog, err := s.Lookup(source); err != nil {
		return nil, err
	} else if prog != nil {
		log.Infof("cache hit in %s", cachePath)
		return prog, nil
	}

	prog, err := interp.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	if err := s.Index(source, prog); err != nil {
		return nil, err
	}
	log.Infof("cache miss, indexed into %s", cachePath)
	return prog, nil
}

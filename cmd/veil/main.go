// veil hides bytes inside a single visible character.
//
// Every payload byte becomes one invisible variation selector placed
// after a base character, so the whole payload renders as the base
// alone. The command encodes, decodes and analyzes such text:
//
//	veil encode 🧁 hello
//	veil decode <text>
//	veil analyze <text>
//	veil demo
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// command is one veil subcommand.
type command struct {
	name    string
	summary string
	run     func(args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func commands() []command {
	return []command{
		{"encode", "hide a message behind a base character", runEncode},
		{"decode", "extract the bytes hidden in text", runDecode},
		{"analyze", "count scalars, selectors, bytes and glyphs", runAnalyze},
		{"demo", "walk through encoding \"hello\"", runDemo},
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return errors.New("no command given")
	}

	switch args[0] {
	case "--version", "version":
		fmt.Fprintf(stdout, "veil %s\n", version)
		return nil
	case "-h", "--help", "help":
		printHelp(stdout)
		return nil
	}

	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(args[1:], stdin, stdout, stderr)
		}
	}
	return fmt.Errorf("unknown command %q (run \"veil --help\")", args[0])
}

// parseFlags parses args, printing usage on --help.
// It reports done when the caller should return without running.
func parseFlags(flagSet *pflag.FlagSet, args []string, usage string, out io.Writer) (done bool, err error) {
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printCommandHelp(out, flagSet, usage)
			return true, nil
		}
		return true, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printCommandHelp(out, flagSet, usage)
		return true, nil
	}
	return false, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `%s

Hides arbitrary bytes inside a single visible character using Unicode
variation selectors. Bytes 0-15 map to U+FE00-U+FE0F and bytes 16-255
to U+E0100-U+E01EF.

Usage:
  veil <command> [flags] [args]

Commands:
`, headingStyle.Render("veil: bytes behind a glyph"))
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprint(w, `
Flags:
  -h, --help     show help
      --version  print the version

Run "veil <command> --help" for command flags.
`)
}

func printCommandHelp(w io.Writer, flagSet *pflag.FlagSet, usage string) {
	fmt.Fprintf(w, "Usage:\n  %s\n\nFlags:\n", usage)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

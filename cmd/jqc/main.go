// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Jqc compiles jq filters and prints their abstract syntax trees.
//
// Usage:
//
//	jqc [-format text|json|yaml] [-db spec] [filter]
//	jqc -db spec -define name filter
//	jqc -db spec -show name
//	jqc -db spec -list
//	jqc -db spec -largest n
//	jqc -db spec -check
//
// With a filter argument, jqc compiles it and prints the result.
// A filter argument of the form @name refers to a definition in the
// library named by -db.
// Without a filter argument, jqc compiles each line typed at the
// jqc> prompt when standard input is a terminal, or else compiles
// all of standard input as a single filter.
//
// The -define, -show, -list, -largest and -check flags manage the
// library of named filter definitions instead. The -db flag names the
// library as pebble:DIR[~NAMESPACE] or mem[~NAMESPACE].
// With -define, a missing Pebble database is created.
//
// The -trace flag prints the parser's progress to standard error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/jqc/internal/cache"
	"golang.org/x/jqc/internal/dbspec"
	"golang.org/x/jqc/internal/filter"
	"golang.org/x/jqc/internal/library"
	"golang.org/x/jqc/internal/syntax"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type jqcFlags struct {
	format  string
	db      string
	level   string
	trace   bool
	define  string
	show    string
	list    bool
	largest int
	check   bool
}

var flags jqcFlags

func init() {
	flag.StringVar(&flags.format, "format", "text", "output `format`: text, json or yaml")
	flag.StringVar(&flags.db, "db", "", "definition library `spec`")
	flag.StringVar(&flags.level, "level", "warn", "log level")
	flag.BoolVar(&flags.trace, "trace", false, "trace the parser")
	flag.StringVar(&flags.define, "define", "", "define `name` as the filter argument")
	flag.StringVar(&flags.show, "show", "", "print the source of the definition `name`")
	flag.BoolVar(&flags.list, "list", false, "list all definitions")
	flag.IntVar(&flags.largest, "largest", 0, "list the `n` definitions with the largest filters")
	flag.BoolVar(&flags.check, "check", false, "report definitions that no longer compile")
}

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: jqc [flags] [filter]\n")
	old := flag.CommandLine.Output()
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	flag.CommandLine.SetOutput(old)
}

// A jqc holds the state for a single run.
type jqc struct {
	slog   *slog.Logger
	cache  *cache.Cache
	lib    *library.Library // nil without -db
	format string
	out    io.Writer
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("jqc: ")
	flag.Usage = usage
	flag.Parse()

	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(flags.level)); err != nil {
		log.Fatal(err)
	}
	lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if flags.trace {
		syntax.Trace = os.Stderr
	}
	os.Exit(execute(lg, &flags, flag.Args(), os.Stdout, os.Stderr))
}

// execute runs jqc with the given flags and arguments and returns
// the process exit status. Results go to out and errors to stderr.
// Any database opened for the run is closed before execute returns.
func execute(lg *slog.Logger, flags *jqcFlags, args []string, out, stderr io.Writer) int {
	j := &jqc{
		slog:   lg,
		cache:  cache.New(lg, nil, 256),
		format: flags.format,
		out:    out,
	}
	switch j.format {
	case "text", "json", "yaml":
	default:
		fmt.Fprintf(stderr, "jqc: unknown -format %q\n", j.format)
		return 2
	}

	if flags.db != "" {
		spec, err := dbspec.Parse(flags.db)
		if err != nil {
			fmt.Fprintf(stderr, "jqc: %v\n", err)
			return 1
		}
		db, err := spec.Open(lg, flags.define != "")
		if err != nil {
			fmt.Fprintf(stderr, "jqc: %v\n", err)
			return 1
		}
		defer db.Close()
		j.lib = library.New(lg, db, spec.Namespace, j.cache)
	}

	if err := j.run(flags, args); err != nil {
		if err == errUsage {
			printUsage(stderr)
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// errUsage reports a command line that makes no sense.
var errUsage = errors.New("usage")

// run carries out the operation selected by flags.
func (j *jqc) run(flags *jqcFlags, args []string) error {
	libOp := flags.define != "" || flags.show != "" || flags.list || flags.largest > 0 || flags.check
	if libOp && j.lib == nil {
		return errors.New("library operations require -db")
	}

	switch {
	case flags.define != "":
		if len(args) != 1 {
			return errUsage
		}
		return j.lib.Define(flags.define, args[0])

	case flags.show != "":
		src, ok := j.lib.Source(flags.show)
		if !ok {
			return fmt.Errorf("%s: %w", flags.show, library.ErrNotDefined)
		}
		fmt.Fprintln(j.out, src)
		return nil

	case flags.list:
		j.list()
		return nil

	case flags.largest > 0:
		j.largest(flags.largest)
		return nil

	case flags.check:
		return j.check(context.Background())
	}

	switch len(args) {
	case 1:
		return j.compile(args[0])
	case 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return j.repl()
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return j.compile(strings.TrimSpace(string(data)))
	}
	return errUsage
}

// compile compiles src and prints the result in j's format.
// A src of the form @name is looked up in the library.
func (j *jqc) compile(src string) error {
	var f filter.Filter
	var err error
	if name, ok := strings.CutPrefix(src, "@"); ok && j.lib != nil {
		f, err = j.lib.Lookup(name)
	} else {
		f, err = j.cache.Get(src)
	}
	if err != nil {
		return err
	}
	return j.print(f)
}

// print prints f in j's format.
func (j *jqc) print(f filter.Filter) error {
	switch j.format {
	case "json":
		data, err := json.MarshalIndent(filter.Export(f), "", "\t")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(j.out, "%s\n", data)
		return err
	case "yaml":
		data, err := yaml.Marshal(filter.Export(f))
		if err != nil {
			return err
		}
		_, err = j.out.Write(data)
		return err
	}
	_, err := io.WriteString(j.out, f.String())
	return err
}

func (j *jqc) list() {
	for d := range j.lib.All() {
		fmt.Fprintf(j.out, "%s\t%s\n", d.Name, d.Source)
	}
}

func (j *jqc) largest(n int) {
	for _, s := range j.lib.Largest(n) {
		fmt.Fprintf(j.out, "%d\t%s\t%s\n", s.Size, s.Name, s.Source)
	}
}

func (j *jqc) check(ctx context.Context) error {
	probs, err := j.lib.Check(ctx, runtime.GOMAXPROCS(0))
	if err != nil {
		return err
	}
	for _, p := range probs {
		fmt.Fprintf(j.out, "%s: %v\n", p.Name, p.Err)
	}
	if len(probs) > 0 {
		return fmt.Errorf("%d definitions do not compile", len(probs))
	}
	return nil
}

// repl compiles filters typed at an interactive prompt
// until end of input.
func (j *jqc) repl() error {
	t := term.NewTerminal(os.Stdin, "jqc> ")
	j.out = t
	for {
		line, err := readLine(t)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		j.eval(t, line)
	}
}

// eval compiles a single line of input, reporting errors to w.
func (j *jqc) eval(w io.Writer, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if err := j.compile(line); err != nil {
		fmt.Fprintf(w, "?%v\n", err)
	}
}

func readLine(t *term.Terminal) (string, error) {
	old, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	defer term.Restore(int(os.Stdin.Fd()), old)
	return t.ReadLine()
}

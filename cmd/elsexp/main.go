// Command elsexp formats S-expression text and converts it to and from JSON.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	sexp "github.com/alttpo/elsexp"
	"github.com/pkg/errors"
)

const (
	appName = "elsexp"
	version = "0.1.0"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix(appName + ": ")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "fmt":
		return cmdFmt(args, stdin, stdout, stderr)
	case "json":
		return cmdJSON(args, stdin, stdout, stderr)
	case "encode":
		return cmdEncode(args, stdin, stdout, stderr)
	case "repl":
		return cmdRepl(args)
	case "version":
		fmt.Fprintln(stdout, version)
		return 0
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: %[1]s <command> [flags] [file ...]

commands:
  fmt [-check]          print each expression in canonical form
  json [-alist]         convert expressions to JSON, one value per line
  encode [-strict] [-sep s]
                        convert a stream of JSON values to S-expressions
  repl                  read expressions interactively
  version               print the version

With no file arguments input is read from standard input.
`, appName)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// readInput concatenates the named files, or reads stdin when there are none.
func readInput(paths []string, stdin io.Reader) ([]byte, error) {
	if len(paths) == 0 {
		b, err := io.ReadAll(stdin)
		return b, errors.Wrap(err, "read stdin")
	}

	var buf bytes.Buffer
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", p)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func cmdFmt(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("fmt", stderr)
	check := fs.Bool("check", false, "exit 1 if the input is not already canonical")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	out, err := format(string(src))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *check {
		if string(bytes.TrimSpace(src)) != out {
			return 1
		}
		return 0
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func format(src string) (string, error) {
	nodes, err := sexp.Parse(src)
	if err != nil {
		return "", err
	}
	vs := make([]interface{}, len(nodes))
	for i, n := range nodes {
		vs[i] = n
	}
	return sexp.EncodeMany(vs, "\n", true)
}

func cmdJSON(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("json", stderr)
	alist := fs.Bool("alist", false, "convert association lists to JSON objects")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	nodes, err := sexp.Parse(string(src))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	for i, n := range nodes {
		var v interface{} = n.Decode()
		if *alist && n.IsAlist() {
			if v, err = n.ToObject(); err != nil {
				fmt.Fprintln(stderr, errors.Wrapf(err, "expression %d", i+1))
				return 1
			}
		}
		if err := enc.Encode(v); err != nil {
			fmt.Fprintln(stderr, errors.Wrapf(err, "expression %d", i+1))
			return 1
		}
	}
	return 0
}

func cmdEncode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("encode", stderr)
	strict := fs.Bool("strict", false, "fail on values with no S-expression form")
	sep := fs.String("sep", "\n", "separator between encoded values")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readInput(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	var vs []interface{}
	for {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(stderr, errors.Wrapf(err, "json value %d", len(vs)+1))
			return 1
		}
		vs = append(vs, v)
	}

	e := sexp.Encoder{Strict: *strict, Warnf: log.Printf}
	out, err := e.EncodeMany(vs, *sep)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

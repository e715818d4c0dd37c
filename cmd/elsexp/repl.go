package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	sexp "github.com/alttpo/elsexp"
	"github.com/peterh/liner"
)

const (
	historyFile = ".elsexp_history"
	promptMain  = "sexp> "
	promptCont  = "....> "
)

func cmdRepl(_ []string) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		src, ok := readExpressions(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return 0
		}

		fmt.Println(evalLine(src))
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}

	return 0
}

// evalLine describes each expression in src: its canonical text followed by
// the decoded value.
func evalLine(src string) string {
	nodes, err := sexp.Parse(src)
	if err != nil {
		return err.Error()
	}

	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		line := fmt.Sprintf("%s ; %s => %#v", n, n.Kind, n.Decode())
		if n.IsAlist() {
			if obj, err := n.ToObject(); err == nil {
				line += fmt.Sprintf(" ; object %v", obj)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// readExpressions keeps prompting while the text so far only fails because
// it ended early, such as an unclosed list or string.
func readExpressions(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if incomplete(src) {
			continue
		}
		return src, true
	}
}

// incomplete reports whether more input could still complete src: the
// parse must fail at end of input while waiting for a closing ")" or
// quote, for the space after a dot, or for the expression after an
// opening "(" or "'". An input such as "1.5e" also fails at end of input
// but no continuation can fix it.
func incomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := sexp.Parse(src)
	var serr *sexp.SyntaxError
	if !errors.As(err, &serr) || !serr.AtEOF() {
		return false
	}
	for _, e := range serr.Expected {
		switch e {
		case `")"`, `"\""`, `"("`, "whitespace":
			return true
		}
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	scl "github.com/Simobr312/lpl-project"
)

const (
	historyFile = ".scl_history"
	promptMain  = "scl> "
	promptCont  = "...> "
)

var banner = fmt.Sprintf("scl %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", Version)

const replHelp = `REPL commands:
  :help    Show this help
  :vars    List bound complexes
  :reset   Discard all bindings
  :quit    Exit the REPL

Commands (complex K = ..., K = ..., if, while, function, vertex) extend
the session; a bare expression like betti(K, 0) is evaluated and printed.`

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func runRepl() error {
	fmt.Println(banner)

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

	session := scl.NewInterpreter().NewSession()

	for {
		code, ok := readBalanced(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return nil
			case ":help":
				fmt.Println(replHelp)
			case ":vars":
				printVars(session)
			case ":reset":
				session = scl.NewInterpreter().NewSession()
				fmt.Println("session reset")
			default:
				fmt.Println("unknown command. Type :help for help.")
			}
			continue
		}

		evalLine(session, code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// evalLine executes code as commands; when it does not parse as a
// command sequence, it is retried as a single expression and the value
// printed.
func evalLine(session *scl.Session, code string) {
	cmdErr := session.Exec(code)
	if cmdErr == nil {
		return
	}

	var parseErr *scl.ParseError
	if errors.As(cmdErr, &parseErr) {
		if v, exprErr := session.Eval(code); exprErr == nil {
			fmt.Println(blue(v.String()))
			return
		}
	}
	fmt.Fprint(os.Stderr, red(scl.FormatErrorWithSource(cmdErr, "", code)))
	fmt.Fprintln(os.Stderr)
}

func printVars(session *scl.Session) {
	snapshot := session.Result().Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("no complexes bound")
		return
	}
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		view := snapshot[name]
		fmt.Printf("%s: dim %d, %d vertices\n", name, view.Dimension, len(view.Vertices))
	}
}

// readBalanced keeps prompting until braces balance, so a multi-line if
// or while body can be typed naturally.
func readBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
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

		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// braceDepth counts unclosed braces outside // comments.
func braceDepth(src string) int {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for _, ch := range line {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
	}
	return depth
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/karatelabs/karate-js/builtins"
	"github.com/karatelabs/karate-js/interpreter"
	"github.com/karatelabs/karate-js/runtime"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive prompt on a persistent engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(cmd.OutOrStdout())
		},
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".karatejs_history")
}

func repl(out io.Writer) error {
	engine := interpreter.NewEngine()
	engine.SetOut(out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		return complete(engine, prefix)
	})
	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintln(out, "karatejs repl; exit with ctrl-d")
	for {
		input, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil { // io.EOF on ctrl-d
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		value, err := engine.Eval(input)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if value != nil {
			fmt.Fprintln(out, format(value))
		}
	}
}

// complete offers the user's own bindings as completions.
func complete(engine *interpreter.Engine, prefix string) []string {
	var matches []string
	for _, name := range engine.Names() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// format renders a result the way the console does: containers as JSON,
// everything else as its string form.
func format(value any) string {
	return builtins.Display(runtime.FromHost(value))
}

package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/themobileprof/omnibar/internal/host"
	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/internal/omnibar"
	"github.com/themobileprof/omnibar/pkg/models"
)

// REPL represents the interactive palette interface
type REPL struct {
	state   *omnibar.State
	history interfaces.HistoryStore
	runner  host.ScriptRunner
	settle  time.Duration
	now     func() time.Time

	out io.Writer
	in  *bufio.Reader
}

// NewREPL creates a new REPL driving the given query state machine.
// settle is how long to wait after a query for debounced results to land.
func NewREPL(state *omnibar.State, history interfaces.HistoryStore, settle time.Duration) *REPL {
	return &REPL{
		state:   state,
		history: history,
		settle:  settle,
		now:     time.Now,
		out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
	}
}

// Start begins the interactive REPL loop
func (repl *REPL) Start(ctx context.Context) error {
	fmt.Fprintln(repl.out, "Omnibar - Command Palette")
	fmt.Fprintln(repl.out, "Type a query, 'help' for commands, 'exit' to quit")
	fmt.Fprintln(repl.out)

	for {
		fmt.Fprint(repl.out, "> ")
		input, err := repl.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if err := repl.handleCommand(ctx, input); err != nil {
			if err.Error() == "exit" {
				fmt.Fprintln(repl.out, "Goodbye!")
				return nil
			}
			color.New(color.FgRed).Fprintf(repl.out, "Error: %v\n\n", err)
		}
	}
}

// handleCommand processes a single line of input
func (repl *REPL) handleCommand(ctx context.Context, input string) error {
	switch input {
	case "help":
		return repl.showHelp()
	case "exit", "quit":
		return fmt.Errorf("exit")
	case "recent":
		return repl.showRecent()
	case "clear":
		if err := repl.state.ClearHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(repl.out, "History cleared.")
		return nil
	case "go":
		return repl.execute(ctx)
	default:
		return repl.handleQuery(input)
	}
}

// showHelp displays help information
func (repl *REPL) showHelp() error {
	fmt.Fprintln(repl.out, `
Available Commands:
  help          - Show this help message
  recent        - Show recently used actions
  clear         - Clear action history
  go            - Execute the current top match
  exit, quit    - Exit Omnibar

Queries:
  Anything else is treated as a palette query. Math expressions,
  currency conversions, app and script names all work.

Examples:
  > 2 + 2 * 3
  > 100 usd to eur
  > ff notes
  > firefox`)
	fmt.Fprintln(repl.out)
	return nil
}

// handleQuery feeds a query through the state machine and renders the results
func (repl *REPL) handleQuery(input string) error {
	repl.state.SetQuery(input)

	// File search and window listing resolve asynchronously.
	if repl.settle > 0 {
		time.Sleep(repl.settle)
	}

	repl.render()
	return nil
}

func (repl *REPL) render() {
	matchColor := color.New(color.FgGreen, color.Bold)
	headColor := color.New(color.FgCyan)
	dimColor := color.New(color.Faint)

	selected := repl.state.SelectedIndex()
	row := 0
	cursor := func() string {
		marker := "  "
		if row == selected {
			marker = "* "
		}
		row++
		return marker
	}

	if matched := repl.state.Matched(); matched != nil {
		matchColor.Fprintf(repl.out, "%s%s %s", cursor(), matched.Icon, matched.Name)
		if matched.Description != "" {
			dimColor.Fprintf(repl.out, "  %s", matched.Description)
		}
		fmt.Fprintln(repl.out)
	}

	if windows := repl.state.FilteredWindows(); len(windows) > 0 {
		headColor.Fprintln(repl.out, "Windows:")
		for _, w := range windows {
			fmt.Fprintf(repl.out, "%s%s (%s)\n", cursor(), w.Title, w.Class)
		}
	}

	if apps := repl.state.FilteredApps(); len(apps) > 0 {
		headColor.Fprintln(repl.out, "Apps:")
		for _, a := range apps {
			fmt.Fprintf(repl.out, "%s%s %s\n", cursor(), a.Icon, a.Name)
		}
	}

	if scripts := repl.state.FilteredScripts(); len(scripts) > 0 {
		headColor.Fprintln(repl.out, "Scripts:")
		for _, s := range scripts {
			fmt.Fprintf(repl.out, "%s%s  %s\n", cursor(), s.Alias, dimColor.Sprint(s.Path))
		}
	}

	if files := repl.state.FileResults(); len(files) > 0 {
		headColor.Fprintln(repl.out, "Files:")
		for _, f := range files {
			fmt.Fprintf(repl.out, "%s%s\n", cursor(), f)
		}
	}

	if row == 0 {
		dimColor.Fprintln(repl.out, "No results.")
	}
	fmt.Fprintln(repl.out)
}

// execute runs the current top match and records the selection
func (repl *REPL) execute(ctx context.Context) error {
	matched := repl.state.Matched()

	result, err := repl.state.ExecuteMatch(ctx)
	switch {
	case errors.Is(err, omnibar.ErrNoMatch):
		return fmt.Errorf("nothing to execute")
	case errors.Is(err, omnibar.ErrHostExecuted):
		return repl.executeHostCandidate(ctx, matched)
	case err != nil:
		return fmt.Errorf("execution failed: %w", err)
	}

	if result != "" {
		color.New(color.FgGreen).Fprintf(repl.out, "= %s\n\n", result)
	}

	if matched != nil && matched.Type == models.CandidateSkill {
		repl.state.RecordSelection(models.ActionForSkill(matched.ID, matched.Name, repl.now()))
	}
	return nil
}

// executeHostCandidate handles candidates the core hands back to the host
func (repl *REPL) executeHostCandidate(ctx context.Context, matched *models.Candidate) error {
	if matched == nil {
		return nil
	}

	script, ok := matched.Data.(models.Script)
	if !ok {
		fmt.Fprintf(repl.out, "%s is opened by the host shell.\n", matched.Name)
		return nil
	}

	repl.state.BeginExecution()
	defer repl.state.FinishExecution()

	out, err := repl.runner.Run(ctx, script)
	if out != "" {
		fmt.Fprint(repl.out, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(repl.out)
		}
	}
	if err != nil {
		return err
	}

	repl.state.RecordSelection(models.ActionForScript(script, repl.now()))
	return nil
}

// showRecent lists recently used actions, most recent first
func (repl *REPL) showRecent() error {
	entries, err := repl.history.Recent(10)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(repl.out, "No history yet.")
		return nil
	}

	fmt.Fprintf(repl.out, "\nRecent actions:\n\n")
	for i, e := range entries {
		when := time.UnixMilli(e.LastAccessed).Format("2006-01-02 15:04")
		fmt.Fprintf(repl.out, "%d. %s %s  (%s, used %dx)\n", i+1, e.Icon, e.Name, when, e.Frequency)
	}
	fmt.Fprintln(repl.out)
	return nil
}

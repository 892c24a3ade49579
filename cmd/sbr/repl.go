package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"sbr-suite/pkg/resolver"
)

const replHistoryFile = ".sbr_history"

const replHelp = `commands:
  units             list loaded units
  use <unit>        select the unit the other commands act on
  lookup <name>     show the declaration a spelling resolves to
  type <name>       show a declaration's type descriptor
  scopes            print the selected unit's scope tree
  diag              list the selected unit's diagnostics
  dump              dump the selected unit's full result
  load <path>       load and resolve another document or directory
  quit              exit
`

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [path]",
		Short: "Interactively inspect resolved units",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			session := &replSession{}
			if err := session.load(cmd.Context(), target); err != nil {
				return err
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, replHistoryFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}

			for {
				line, err := ln.Prompt("sbr> ")
				if err != nil {
					fmt.Println()
					break
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				ln.AppendHistory(line)
				if done := session.handle(cmd.Context(), line); done {
					break
				}
			}

			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
			return nil
		},
	}
	return cmd
}

type replSession struct {
	results []*resolver.Result
	current *resolver.Result
}

func (s *replSession) load(ctx context.Context, target string) error {
	results, err := resolveTarget(ctx, target, 0)
	if len(results) == 0 {
		return err
	}
	if err != nil {
		fmt.Println("loaded with errors:", err)
	}
	s.results = results
	s.current = results[0]
	fmt.Printf("loaded %d unit(s); selected %s\n", len(results), s.current.Unit)
	return nil
}

func (s *replSession) handle(ctx context.Context, line string) (exit bool) {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Print(replHelp)

	case "quit", "exit":
		return true

	case "units":
		for _, r := range s.results {
			marker := " "
			if r == s.current {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, summarize(r))
		}

	case "use":
		if len(rest) != 1 {
			fmt.Println("usage: use <unit>")
			return false
		}
		r, err := findResult(s.results, rest[0])
		if err != nil {
			fmt.Println(err)
			return false
		}
		s.current = r
		fmt.Printf("selected %s\n", r.Unit)

	case "lookup":
		if len(rest) != 1 {
			fmt.Println("usage: lookup <name>")
			return false
		}
		d := s.current.LookupDecl(rest[0])
		if d == nil {
			fmt.Printf("no declaration named %q\n", rest[0])
			return false
		}
		scope := s.current.Scopes.Scope(d.Scope)
		fmt.Printf("%s %s (%s) in %s#%d\n", d.Kind, d.Name, d.ID, scope.Kind, scope.ID)

	case "type":
		if len(rest) != 1 {
			fmt.Println("usage: type <name>")
			return false
		}
		d := s.current.LookupDecl(rest[0])
		if d == nil {
			fmt.Printf("no declaration named %q\n", rest[0])
			return false
		}
		fmt.Printf("%s: %s\n", d.Name, typeLabel(s.current.Types[d.ID]))

	case "scopes":
		printScope(s.current, s.current.Scopes.Root(), 0)

	case "diag":
		if len(s.current.Diagnostics) == 0 {
			fmt.Println("no diagnostics")
			return false
		}
		for _, d := range s.current.Diagnostics {
			fmt.Printf("%s node=%s %s\n", d.Kind, d.Node, d.Detail)
		}

	case "dump":
		spew.Dump(s.current)

	case "load":
		if len(rest) != 1 {
			fmt.Println("usage: load <path>")
			return false
		}
		if err := s.load(ctx, rest[0]); err != nil {
			fmt.Println(err)
		}

	default:
		fmt.Printf("unknown command %q (try help)\n", cmd)
	}
	return false
}

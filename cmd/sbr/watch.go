package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration
	var iterationCap int

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-resolve unit documents whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reportOnce(ctx, target, iterationCap)
			return watchUnits(ctx, target, debounce, func(changed []string) {
				slog.Info("documents changed", slog.Int("count", len(changed)))
				reportOnce(ctx, target, iterationCap)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "delay before re-resolving after a change")
	cmd.Flags().IntVar(&iterationCap, "cap", 0, "propagation step ceiling (0 = declarations squared)")
	return cmd
}

func reportOnce(ctx context.Context, target string, iterationCap int) {
	results, err := resolveTarget(ctx, target, iterationCap)
	for _, r := range results {
		fmt.Println(summarize(r))
	}
	if err != nil {
		slog.Error("resolution failed", slog.String("error", err.Error()))
	}
}

func watchUnits(ctx context.Context, target string, debounce time.Duration, onChange func([]string)) error {
	root, err := watchRoot(target)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			pending = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func watchRoot(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagVerbose          bool
	flagPrompt           bool
	flagNoPreserve       bool
	flagShortcutFallback bool
	flagTimeout          time.Duration
)

// rootCmd is the one-shot mode: grab the current selection, print it, exit.
var rootCmd = &cobra.Command{
	Use:   "selected-text",
	Short: "Print the text currently selected in the frontmost application",
	Long: `selected-text extracts whatever text is selected in the application that
currently has input focus and prints it to stdout.

It first asks the accessibility tree for the focused element's selection.
If that yields nothing, it locates the Copy command in the frontmost
application's menu bar, invokes it, watches the clipboard for the result,
and restores the clipboard's previous contents afterwards.

"Nothing selected" is a normal outcome: the tool prints a note to stderr
and exits 0.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runGrab,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log strategy decisions to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagPrompt, "prompt", false, "let the OS show its accessibility permission dialog if permission is missing")
	rootCmd.Flags().BoolVar(&flagNoPreserve, "no-preserve", false, "leave the copied text on the clipboard instead of restoring the previous contents")
	rootCmd.Flags().BoolVar(&flagShortcutFallback, "shortcut-fallback", false, "fall back to a synthetic ⌘C when no copy menu command is found")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "how long to wait for the clipboard to change (default from config)")
}

// buildSelectionService wires the acquisition pipeline from config + flags.
func buildSelectionService(cfg Config) *SelectionService {
	clip := NewClipboardService()
	clip.SetPreserve(cfg.Preserve() && !flagNoPreserve)
	clip.SetRestoreDelay(cfg.RestoreDelay())

	opts := cfg.SelectionOptions()
	opts.ShortcutFallback = opts.ShortcutFallback || flagShortcutFallback
	opts.PromptForTrust = flagPrompt
	if flagTimeout > 0 {
		opts.PollTimeout = flagTimeout
	}
	return NewSelectionService(clip, opts)
}

func runGrab(cmd *cobra.Command, args []string) error {
	if !flagVerbose {
		log.SetOutput(io.Discard)
	}
	cfg := NewConfigService().Load()
	svc := buildSelectionService(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	text, ok := svc.Acquire(ctx)
	if !ok {
		fmt.Fprintln(os.Stderr, "no selection found")
		return nil
	}
	fmt.Println(text)
	return nil
}

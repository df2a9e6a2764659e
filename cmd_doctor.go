package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check accessibility permission and clipboard availability",
	Long: `doctor reports whether the environment can support selection grabbing:
the accessibility permission gate (required for the menu-copy and shortcut
strategies) and the clipboard backend.

With --prompt, macOS shows its grant dialog when permission is missing.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	trusted := newPlatformAXBackend().Trusted(flagPrompt)
	if trusted {
		fmt.Println("accessibility permission: granted")
	} else {
		fmt.Println("accessibility permission: not granted")
	}

	if clipboardAvailable() {
		fmt.Println("clipboard: available")
	} else {
		fmt.Println("clipboard: unavailable")
	}
	pb := newPlatformPasteboard()
	if _, ok := pb.ReadText(); ok {
		fmt.Printf("clipboard change counter: %d (text present)\n", pb.ChangeCount())
	} else {
		fmt.Printf("clipboard change counter: %d (no text)\n", pb.ChangeCount())
	}

	if !trusted {
		return errors.New("grant accessibility permission in System Settings ▸ Privacy & Security ▸ Accessibility, or rerun with --prompt")
	}
	return nil
}

// Package clipboard reads and writes the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// command is a clipboard helper binary with its arguments.
type command struct {
	name string
	args []string
}

var copyCommands = map[string][]command{
	"darwin": {{name: "pbcopy"}},
	"linux": {
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "wl-copy"},
	},
}

var pasteCommands = map[string][]command{
	"darwin": {{name: "pbpaste"}},
	"linux": {
		{name: "xclip", args: []string{"-selection", "clipboard", "-o"}},
		{name: "xsel", args: []string{"--clipboard", "--output"}},
		{name: "wl-paste", args: []string{"--no-newline"}},
	},
}

// lookup returns the first installed command for this platform.
func lookup(candidates map[string][]command) (*exec.Cmd, error) {
	for _, c := range candidates[runtime.GOOS] {
		if _, err := exec.LookPath(c.name); err == nil {
			return exec.Command(c.name, c.args...), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

func getCopyCommand() (*exec.Cmd, error)  { return lookup(copyCommands) }
func getPasteCommand() (*exec.Cmd, error) { return lookup(pasteCommands) }

// IsAvailable reports whether the clipboard can be written.
func IsAvailable() bool {
	_, err := getCopyCommand()
	return err == nil
}

// Copy copies text to the system clipboard.
func Copy(text string) error {
	cmd, err := getCopyCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", cmd.Path, err)
	}
	return nil
}

// Paste returns the current clipboard text.
func Paste() (string, error) {
	cmd, err := getPasteCommand()
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running %s: %w", cmd.Path, err)
	}
	return string(out), nil
}

// Package clipboard copies reports to the system clipboard by shelling out
// to the platform's copy utility.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no copy utility is installed.
var ErrUnavailable = errors.New("no clipboard utility found")

// Write copies text to the system clipboard.
func Write(text string) error {
	args, ok := command(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "", exec.LookPath)
	if !ok {
		return ErrUnavailable
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Available checks if clipboard functionality is available.
func Available() bool {
	_, ok := command(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "", exec.LookPath)
	return ok
}

// command picks the copy utility for goos.
func command(goos string, wayland bool, lookPath func(string) (string, error)) ([]string, bool) {
	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		return []string{"cmd", "/c", "clip"}, true
	default:
		if wayland {
			candidates = append(candidates, []string{"wl-copy"})
		}
		candidates = append(candidates,
			[]string{"xclip", "-selection", "clipboard"},
			[]string{"xsel", "--clipboard", "--input"},
		)
	}

	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, true
		}
	}
	return nil, false
}

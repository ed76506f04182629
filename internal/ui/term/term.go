// Package term adapts the ui interaction interfaces to a line-oriented
// terminal, used by cmd/storefront to drive the flows interactively.
package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal implements ui.Navigator, ui.Confirmer and ui.Alerter over an
// input reader and output writer.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer

	location string
	reloads  int
}

// New returns a Terminal reading prompts from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Redirect records the new location and announces it.
func (t *Terminal) Redirect(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = url
	fmt.Fprintf(t.out, "-> chuyển đến %s\n", url)
}

// Reload announces a page reload.
func (t *Terminal) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reloads++
	fmt.Fprintln(t.out, "-> tải lại trang")
}

// Location returns the last redirect target, empty when none happened.
func (t *Terminal) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// Confirm prints the prompt and reads one line. Only an explicit yes
// ("y"/"yes"/"co"/"có") accepts; everything else, including EOF, declines.
func (t *Terminal) Confirm(prompt string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	if !t.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(t.in.Text())) {
	case "y", "yes", "co", "có":
		return true
	}
	return false
}

// Alert prints the message on its own line.
func (t *Terminal) Alert(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "!! %s\n", msg)
}

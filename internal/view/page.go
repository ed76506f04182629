package view

import (
	"fmt"
	"sync"
)

// MemoryPage is an in-memory Page: counter mirrors and rows registered at
// render time, discoverable per sync call. It backs the terminal UI and the
// flow tests.
type MemoryPage struct {
	mu       sync.Mutex
	counters []CounterMirror
	amount   AmountView
	rows     map[string]bool // row id -> hidden
}

func NewMemoryPage() *MemoryPage {
	return &MemoryPage{rows: map[string]bool{}}
}

// AddCounter registers one more counter mirror, as a partial page update
// would.
func (p *MemoryPage) AddCounter(mirror CounterMirror) {
	if mirror == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters = append(p.counters, mirror)
}

// SetAmountView installs the single amount element.
func (p *MemoryPage) SetAmountView(view AmountView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amount = view
}

// AddRow registers a visible row element under the given id.
func (p *MemoryPage) AddRow(rowID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows[rowID] = false
}

func (p *MemoryPage) CounterMirrors() []CounterMirror {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CounterMirror, len(p.counters))
	copy(out, p.counters)
	return out
}

func (p *MemoryPage) AmountView() AmountView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.amount
}

// HideRow marks the row hidden. The row is never removed; hiding an already
// hidden row leaves it hidden.
func (p *MemoryPage) HideRow(rowID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rows[rowID]; !ok {
		return fmt.Errorf("row %q not found", rowID)
	}
	p.rows[rowID] = true
	return nil
}

// RowHidden reports whether the row exists and is hidden.
func (p *MemoryPage) RowHidden(rowID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows[rowID]
}

// RowExists reports whether the row element is still part of the page.
func (p *MemoryPage) RowExists(rowID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.rows[rowID]
	return ok
}

// TextCounter is a CounterMirror holding its rendered text, the way a badge
// element holds innerText.
type TextCounter struct {
	mu   sync.Mutex
	text string
}

func (c *TextCounter) SetCount(count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = fmt.Sprintf("%d", count)
	return nil
}

func (c *TextCounter) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// TextAmount is an AmountView holding its rendered text.
type TextAmount struct {
	mu   sync.Mutex
	text string
}

func (a *TextAmount) SetAmount(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = text
	return nil
}

func (a *TextAmount) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

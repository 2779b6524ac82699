package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// ErrNoComponent is returned when the clipboard holds no component.
var ErrNoComponent = errors.New("clipboard holds no component")

// Clipboard is an external text clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

// ReadAll implements Clipboard.
func (SystemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboardAvailable reports whether the platform clipboard can be used.
func SystemClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// MemoryClipboard is an in-process Clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// ReadAll implements Clipboard.
func (m *MemoryClipboard) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteAll implements Clipboard.
func (m *MemoryClipboard) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func writeClipboard(c Clipboard, n *tree.Node) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding clipboard: %w", err)
	}
	return c.WriteAll(string(data))
}

// readClipboard parses a component subtree from c. Ids are not checked:
// paste assigns fresh ones.
func readClipboard(c Clipboard) (*tree.Node, error) {
	text, err := c.ReadAll()
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, ErrNoComponent
	}
	var n tree.Node
	if err := json.Unmarshal([]byte(text), &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoComponent, err)
	}
	if n.ComponentID == "" || n.ComponentID == tree.RootComponentID {
		return nil, ErrNoComponent
	}
	return &n, nil
}

package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

const DefaultMaxItems = 1000

// History is the list of entered command lines, persisted to a file after
// every addition. A line equal to the one before it is not recorded again.
type History struct {
	items    []string
	file     string
	maxItems int
	mu       sync.Mutex
}

func New(file string) (*History, error) {
	h := &History{
		file:     file,
		maxItems: DefaultMaxItems,
	}
	if err := h.load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return h, nil
}

// Add records item. It reports through the error only a failure to persist.
func (h *History) Add(item string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.items); n > 0 && h.items[n-1] == item {
		return nil
	}

	h.items = append(h.items, item)
	h.trim()

	return h.save()
}

func (h *History) GetAll() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

func (h *History) trim() {
	if len(h.items) > h.maxItems {
		h.items = h.items[len(h.items)-h.maxItems:]
	}
}

func (h *History) load() error {
	file, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	h.trim()

	return scanner.Err()
}

func (h *History) save() error {
	file, err := os.Create(h.file)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}
	return writer.Flush()
}

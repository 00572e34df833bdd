package editing

import (
	"sync"

	"github.com/pwnflow/pwnflow-tui/internal/logging"
)

// BlurFunc is invoked when the focused key loses focus. The host UI wires
// it to a commit of that key (typically as a tea.Cmd); the tracker never
// blocks on it.
type BlurFunc func(Key)

// FocusTracker tracks which field currently holds input focus. At most
// one key is focused globally; moving focus away from a key triggers the
// blur callback so the buffered value gets committed.
type FocusTracker struct {
	mu      sync.Mutex
	current Key
	focused bool
	onBlur  BlurFunc
	logger  *logging.Logger
}

// NewFocusTracker creates a FocusTracker. onBlur may be nil when
// commit-on-blur is disabled.
func NewFocusTracker(onBlur BlurFunc, logger *logging.Logger) *FocusTracker {
	return &FocusTracker{
		onBlur: onBlur,
		logger: logger.WithComponent("focus"),
	}
}

// SetFocus moves focus to key. If another key was focused, it is blurred
// first and the blur callback fires for it. Focusing the already-focused
// key is a no-op.
func (f *FocusTracker) SetFocus(key Key) {
	f.mu.Lock()
	if f.focused && f.current == key {
		f.mu.Unlock()
		return
	}

	blurred := f.current
	hadFocus := f.focused
	f.current = key
	f.focused = true
	onBlur := f.onBlur
	f.mu.Unlock()

	f.logger.Debug("focus set", "key", key.String())

	if hadFocus && onBlur != nil {
		onBlur(blurred)
	}
}

// ClearFocus removes focus entirely. The previously focused key, if any,
// is blurred and the blur callback fires for it.
func (f *FocusTracker) ClearFocus() {
	f.mu.Lock()
	if !f.focused {
		f.mu.Unlock()
		return
	}

	blurred := f.current
	f.current = Key{}
	f.focused = false
	onBlur := f.onBlur
	f.mu.Unlock()

	f.logger.Debug("focus cleared", "key", blurred.String())

	if onBlur != nil {
		onBlur(blurred)
	}
}

// Current returns the focused key, if any.
func (f *FocusTracker) Current() (Key, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.focused
}

package notify

import (
	"sync"
	"time"
)

const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// DefaultDuration is how long a notice stays visible unless dismissed.
const DefaultDuration = 3 * time.Second

// Notice is the ephemeral feedback state a single consumer (one dashboard
// connection, one screen) observes.
type Notice struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Notifier holds at most one visible notice. Showing a new notice replaces the
// current one outright; there is no queue. The notice auto-dismisses after the
// configured duration unless hidden earlier or replaced.
type Notifier struct {
	mu       sync.Mutex
	current  Notice
	seq      int
	duration time.Duration
	onChange func(Notice)
}

// NewNotifier creates a notifier. onChange, when non-nil, observes every state
// change (shown, replaced, hidden) and is called without the lock held.
func NewNotifier(duration time.Duration, onChange func(Notice)) *Notifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Notifier{duration: duration, onChange: onChange}
}

func (n *Notifier) show(message, noticeType string) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = Notice{Visible: true, Message: message, Type: noticeType}
	notice := n.current
	n.mu.Unlock()

	if n.onChange != nil {
		n.onChange(notice)
	}

	time.AfterFunc(n.duration, func() {
		n.dismiss(seq)
	})
}

// dismiss hides the notice only if it has not been replaced since.
func (n *Notifier) dismiss(seq int) {
	n.mu.Lock()
	if n.seq != seq || !n.current.Visible {
		n.mu.Unlock()
		return
	}
	n.current = Notice{}
	notice := n.current
	n.mu.Unlock()

	if n.onChange != nil {
		n.onChange(notice)
	}
}

func (n *Notifier) ShowSuccess(message string) { n.show(message, TypeSuccess) }
func (n *Notifier) ShowError(message string)   { n.show(message, TypeError) }
func (n *Notifier) ShowWarning(message string) { n.show(message, TypeWarning) }
func (n *Notifier) ShowInfo(message string)    { n.show(message, TypeInfo) }

// Hide dismisses the current notice immediately. Hiding an already-hidden
// notifier is a no-op.
func (n *Notifier) Hide() {
	n.mu.Lock()
	seq := n.seq
	n.mu.Unlock()
	n.dismiss(seq)
}

// Current returns the visible notice state.
func (n *Notifier) Current() Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

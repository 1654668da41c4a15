package toast

import (
	"sync"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

type Toast struct {
	Message  string
	Severity Severity
	Visible  bool
}

// Notifier holds a single toast slot. Showing a toast replaces the current
// one and arms its own expiry; an older expiry never hides a newer toast.
type Notifier struct {
	mu       sync.Mutex
	current  Toast
	seq      uint64
	timer    *time.Timer
	duration time.Duration
	onChange func(Toast)
}

func NewNotifier(duration time.Duration, onChange func(Toast)) *Notifier {
	if duration <= 0 {
		duration = constants.DefaultToastDuration
	}
	return &Notifier{
		current:  Toast{Severity: SeverityInfo},
		duration: duration,
		onChange: onChange,
	}
}

func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = Toast{Message: message, Severity: severity, Visible: true}
	n.timer = time.AfterFunc(n.duration, func() { n.expire(seq) })
	snapshot := n.current
	n.mu.Unlock()

	n.notify(snapshot)
}

func (n *Notifier) Success(message string) { n.Show(message, SeveritySuccess) }
func (n *Notifier) Error(message string)   { n.Show(message, SeverityError) }
func (n *Notifier) Info(message string)    { n.Show(message, SeverityInfo) }

// Hide dismisses the current toast, keeping its message and severity.
func (n *Notifier) Hide() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	changed := n.current.Visible
	n.current.Visible = false
	snapshot := n.current
	n.mu.Unlock()

	if changed {
		n.notify(snapshot)
	}
}

func (n *Notifier) Current() Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stop cancels any pending expiry without changing the toast.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq || !n.current.Visible {
		n.mu.Unlock()
		return
	}
	n.current.Visible = false
	n.timer = nil
	snapshot := n.current
	n.mu.Unlock()

	n.notify(snapshot)
}

func (n *Notifier) notify(t Toast) {
	if n.onChange != nil {
		n.onChange(t)
	}
}

package osd

import "time"

// How long a notification stays on screen unless a key press clears it.
const notifyVisible = 2000 * time.Millisecond

// Notifier owns the transient notification display. While active it
// overrides whichever display the supervisor would otherwise show.
type Notifier struct {
	d     Display
	since time.Duration
}

// Post replaces the notification text and restarts its visible period.
func (n *Notifier) Post(now time.Duration, text string) {
	n.d.SetText(text)
	n.d.On = true
	n.since = now
}

// Clear hides the notification immediately.
func (n *Notifier) Clear() {
	n.d.On = false
}

// Active returns the notification display if it should override the content
// at the given time, nil otherwise.
func (n *Notifier) Active(now time.Duration) *Display {
	if !n.d.On {
		return nil
	}
	if now-n.since > notifyVisible {
		n.d.On = false
		return nil
	}
	return &n.d
}

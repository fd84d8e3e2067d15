package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier announces the end of a long download. A nil sender disables
// desktop delivery.
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks a sender for the current platform
func NewNotifier() *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}

	return &Notifier{sender: sender}
}

// NewNotifierWithSender uses the given sender
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// SendSuccess announces a finished download
func (n *Notifier) SendSuccess(theme, archivePath string) {
	n.send("themedl", fmt.Sprintf("%s downloaded to %s", theme, archivePath))
}

// SendError announces an aborted download
func (n *Notifier) SendError(theme string, err error) {
	n.send("themedl failed", fmt.Sprintf("%s: %v", theme, err))
}

func (n *Notifier) send(title, message string) {
	if n.sender == nil {
		return
	}
	// Delivery failures never affect the run
	_ = n.sender.Send(title, message)
}

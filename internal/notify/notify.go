// Package notify defines the user-facing surfaces the error handler speaks
// to: a modal alert, a lightweight toast, and a haptic trigger. The handler
// decides WHAT to present per severity; implementations decide HOW.
package notify

// HapticPattern names a feedback pattern an implementation may play.
type HapticPattern string

// Haptic pattern constants.
const (
	HapticError HapticPattern = "error"
	HapticSOS   HapticPattern = "sos"
)

// AlertButton is a labeled action on a modal alert. OnPress may be nil.
type AlertButton struct {
	Label   string
	OnPress func()
}

// AlertOptions controls alert presentation.
type AlertOptions struct {
	// NonDismissible prevents closing the alert without choosing a button.
	// Used for critical errors that must not be swiped away.
	NonDismissible bool
}

// Alerter presents modal alerts and passive toasts to the user.
type Alerter interface {
	Show(title, message string, buttons []AlertButton, opts AlertOptions)
	Toast(message string)
}

// Haptics fires named feedback patterns. Implementations are fire-and-forget;
// a failed trigger must never surface to the caller.
type Haptics interface {
	Trigger(pattern HapticPattern)
}

// NopAlerter discards all notifications. Useful when embedding the handler in
// contexts without a user surface, and in tests.
type NopAlerter struct{}

func (NopAlerter) Show(string, string, []AlertButton, AlertOptions) {}
func (NopAlerter) Toast(string)                                    {}

// NopHaptics discards all haptic triggers.
type NopHaptics struct{}

func (NopHaptics) Trigger(HapticPattern) {}

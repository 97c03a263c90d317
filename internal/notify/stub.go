//go:build !linux

package notify

// New returns a Noop notifier; desktop notifications need D-Bus.
func New() (Notifier, error) {
	return Noop{}, nil
}

//go:build !linux

package mpris

// New returns Discard on platforms without D-Bus.
func New() (Remote, error) {
	return Discard, nil
}

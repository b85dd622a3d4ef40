//go:build !windows
// +build !windows

package portmidi

import (
	"errors"

	"github.com/miditools/midiport/sdk/contracts"
)

// NewDriver reports that the portmidi binding is Windows-only. Other
// platforms bind their native drivers instead.
func NewDriver() (contracts.Driver, error) {
	return nil, errors.New("portmidi driver is only available on windows")
}

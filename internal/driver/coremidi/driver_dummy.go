//go:build !darwin
// +build !darwin

package coremidi

import (
	"errors"

	"github.com/miditools/midiport/sdk/contracts"
)

// NewDriver reports that the CoreMIDI binding is macOS-only. Other
// platforms bind their native drivers instead.
func NewDriver() (contracts.Driver, error) {
	return nil, errors.New("coremidi driver is only available on darwin")
}

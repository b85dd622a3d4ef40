package main

import (
	"fmt"
	"time"

	"github.com/miditools/midiport/internal/logger"
	"github.com/miditools/midiport/sdk/contracts"
	"github.com/miditools/midiport/sdk/midiport"
)

// note is a minimal three-byte message for the demo. Real callers get
// messages from their MIDI parser library, which also supplies the
// parser an input port needs.
type note struct {
	status, key, velocity byte
}

func (n note) Bytes() []byte { return []byte{n.status, n.key, n.velocity} }
func (n note) IsSysEx() bool { return false }

func main() {
	log := logger.NewZapLogger()

	registry, err := midiport.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI registry", log.Field().Error("error", err))
		return
	}
	defer registry.Shutdown()

	outputs, err := registry.OutputNames()
	if err != nil || len(outputs) == 0 {
		log.Error("No MIDI output devices found", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI outputs:", outputs)

	out, err := registry.OpenOutput("") // default output device
	if err != nil {
		log.Error("Failed to open output port", log.Field().Error("error", err))
		return
	}
	defer out.Close()

	fmt.Println("Playing middle C on", out.Name())
	if err := out.Send(note{0x90, 60, 100}); err != nil {
		log.Error("Failed to send note on", log.Field().Error("error", err))
		return
	}
	time.Sleep(500 * time.Millisecond)
	if err := out.Send(note{0x80, 60, 0}); err != nil {
		log.Error("Failed to send note off", log.Field().Error("error", err))
	}
}

package midiport

import "fmt"

// DecodeEvent unpacks a driver event word into its four MIDI bytes,
// byte i occupying bits [8i, 8i+8). All four bytes are produced even
// for shorter messages; the parser discards padding bytes that do not
// extend a message in progress.
func DecodeEvent(word uint32) [4]byte {
	var b [4]byte
	for i := range b {
		b[i] = byte(word >> (8 * i))
	}
	return b
}

// EncodeBytes packs an ordinary MIDI message of 1 to 4 bytes into a
// driver event word, folding right to left so the first byte lands in
// the least significant position. Longer payloads are system-exclusive
// and must take the long-message path; refusing them here beats
// silently truncating a message on the wire.
func EncodeBytes(data []byte) (uint32, error) {
	if len(data) == 0 || len(data) > 4 {
		return 0, fmt.Errorf("cannot pack %d bytes into an event word", len(data))
	}
	var word uint32
	for i := len(data) - 1; i >= 0; i-- {
		word = word<<8 | uint32(data[i])
	}
	return word, nil
}

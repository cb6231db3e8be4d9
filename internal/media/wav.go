package media

import (
	"encoding/binary"
	"fmt"
)

// WAVInfo is the subset of the fmt chunk the worker cares about.
type WAVInfo struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// ParseWAV walks the RIFF chunk list and returns the fmt chunk fields.
// It does not decode samples.
func ParseWAV(b []byte) (WAVInfo, error) {
	if !IsWAV(b) {
		return WAVInfo{}, fmt.Errorf("not a RIFF/WAVE file")
	}
	// Chunks start after the 12-byte RIFF header.
	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(b) {
			return WAVInfo{}, fmt.Errorf("truncated %q chunk", id)
		}
		if id == "fmt " {
			if size < 16 {
				return WAVInfo{}, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			return WAVInfo{
				Channels:      int(binary.LittleEndian.Uint16(b[body+2 : body+4])),
				SampleRate:    int(binary.LittleEndian.Uint32(b[body+4 : body+8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(b[body+14 : body+16])),
			}, nil
		}
		// Chunks are word-aligned.
		off = body + size + (size & 1)
	}
	return WAVInfo{}, fmt.Errorf("missing fmt chunk")
}

package media

import "testing"

func TestParseWAV(t *testing.T) {
	cases := []struct {
		name     string
		channels int
		rate     int
		bits     int
	}{
		{"mono16k", 1, 16000, 16},
		{"stereo44k", 2, 44100, 16},
		{"mono48k24", 1, 48000, 24},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info, err := ParseWAV(tinyWAV(c.channels, c.rate, c.bits))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if info.Channels != c.channels || info.SampleRate != c.rate || info.BitsPerSample != c.bits {
				t.Fatalf("unexpected info: %+v", info)
			}
		})
	}
}

func TestParseWAVErrors(t *testing.T) {
	if _, err := ParseWAV([]byte("not audio")); err == nil {
		t.Fatal("expected error for non-wav input")
	}
	// RIFF/WAVE header but no fmt chunk.
	b := append([]byte("RIFF"), 0, 0, 0, 0)
	b = append(b, []byte("WAVE")...)
	if _, err := ParseWAV(b); err == nil {
		t.Fatal("expected error for missing fmt chunk")
	}
	// Truncated fmt chunk.
	trunc := tinyWAV(1, 16000, 16)[:20]
	if _, err := ParseWAV(trunc); err == nil {
		t.Fatal("expected error for truncated chunk")
	}
}

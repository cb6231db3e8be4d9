package media

import (
	"encoding/binary"
	"testing"
)

// tinyPNG is a minimal byte sequence carrying the PNG signature.
func tinyPNG() []byte {
	return []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
}

func tinyJPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
}

// tinyWAV builds a RIFF/WAVE header with a fmt chunk and an empty data chunk.
func tinyWAV(channels, sampleRate, bits int) []byte {
	var b []byte
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:2], 1) // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:4], uint16(channels))
	binary.LittleEndian.PutUint32(fmtBody[4:8], uint32(sampleRate))
	binary.LittleEndian.PutUint32(fmtBody[8:12], uint32(sampleRate*channels*bits/8))
	binary.LittleEndian.PutUint16(fmtBody[12:14], uint16(channels*bits/8))
	binary.LittleEndian.PutUint16(fmtBody[14:16], uint16(bits))

	b = append(b, []byte("RIFF")...)
	b = append(b, make([]byte, 4)...) // riff size, patched below
	b = append(b, []byte("WAVE")...)
	b = append(b, []byte("fmt ")...)
	b = appendUint32(b, uint32(len(fmtBody)))
	b = append(b, fmtBody...)
	b = append(b, []byte("data")...)
	b = appendUint32(b, 0)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
	return b
}

func appendUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func tinyMP4() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint32(b[0:4], 16)
	copy(b[4:8], "ftyp")
	copy(b[8:12], "isom")
	return b
}

func TestDetectImage(t *testing.T) {
	if k, err := DetectImage(tinyPNG()); err != nil || k != ImagePNG {
		t.Fatalf("png: kind=%q err=%v", k, err)
	}
	if k, err := DetectImage(tinyJPEG()); err != nil || k != ImageJPEG {
		t.Fatalf("jpeg: kind=%q err=%v", k, err)
	}
	if _, err := DetectImage([]byte("plain text")); err == nil {
		t.Fatal("expected error for non-image bytes")
	}
	if _, err := DetectImage(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestIsWAVAndMP4(t *testing.T) {
	if !IsWAV(tinyWAV(1, 16000, 16)) {
		t.Fatal("tinyWAV not detected")
	}
	if IsWAV(tinyPNG()) {
		t.Fatal("png detected as wav")
	}
	if !IsMP4(tinyMP4()) {
		t.Fatal("tinyMP4 not detected")
	}
	if IsMP4(tinyWAV(1, 16000, 16)) {
		t.Fatal("wav detected as mp4")
	}
}

func TestImageSuffix(t *testing.T) {
	if s := ImagePNG.SuffixFor(); s != ".png" {
		t.Fatalf("png suffix=%q", s)
	}
	if s := ImageJPEG.SuffixFor(); s != ".jpg" {
		t.Fatalf("jpeg suffix=%q", s)
	}
}

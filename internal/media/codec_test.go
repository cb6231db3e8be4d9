package media

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeField(t *testing.T) {
	payload := []byte("hello media")
	enc := base64.StdEncoding.EncodeToString(payload)

	got, err := DecodeField("image", enc, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestDecodeFieldMissing(t *testing.T) {
	if _, err := DecodeField("audio", "", 0); err == nil || !strings.Contains(err.Error(), "missing required input: audio") {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := DecodeField("audio", "   ", 0); err == nil {
		t.Fatal("expected error for blank field")
	}
}

func TestDecodeFieldInvalidBase64(t *testing.T) {
	if _, err := DecodeField("image", "!!not-base64!!", 0); err == nil || !strings.Contains(err.Error(), "not valid base64") {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestDecodeFieldSizeCap(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 2048))
	if _, err := DecodeField("image", big, 1024); err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Fatalf("unexpected err: %v", err)
	}
	// Under the cap passes.
	small := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 512))
	if _, err := DecodeField("image", small, 1024); err != nil {
		t.Fatalf("decode under cap: %v", err)
	}
}

func TestEncodeFileRoundTrip(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "clip.mp4")
	data := tinyMP4()
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	enc, err := EncodeFile(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatal("round trip mismatch")
	}
}

func TestEncodeFileMissing(t *testing.T) {
	if _, err := EncodeFile(filepath.Join(t.TempDir(), "nope.mp4")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTempSet(t *testing.T) {
	d := t.TempDir()
	ts := NewTempSet(d)
	p1, err := ts.Write(".png", []byte("img"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	p2 := ts.Path(".mp4")
	if err := os.WriteFile(p2, []byte("vid"), 0o600); err != nil {
		t.Fatalf("write reserved path: %v", err)
	}
	for _, p := range []string{p1, p2} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if filepath.Dir(p) != d {
			t.Fatalf("file %s outside scratch dir", p)
		}
	}
	ts.Cleanup()
	for _, p := range []string{p1, p2} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("file %s survived cleanup", p)
		}
	}
	// Cleanup of an already-clean set is a no-op.
	ts.Cleanup()
}

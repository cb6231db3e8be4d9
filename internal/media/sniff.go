// Package media validates and converts job media payloads.
package media

import (
	"bytes"
	"fmt"
)

// ImageKind identifies a sniffed image container.
type ImageKind string

const (
	ImagePNG  ImageKind = "png"
	ImageJPEG ImageKind = "jpeg"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// DetectImage sniffs PNG/JPEG magic bytes.
func DetectImage(b []byte) (ImageKind, error) {
	if len(b) >= len(pngMagic) && bytes.Equal(b[:len(pngMagic)], pngMagic) {
		return ImagePNG, nil
	}
	if len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF {
		return ImageJPEG, nil
	}
	return "", fmt.Errorf("not a PNG or JPEG image")
}

// IsWAV reports whether b starts with a RIFF/WAVE header.
func IsWAV(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE"))
}

// IsMP4 reports whether b looks like an ISO BMFF (MP4) file: the first box
// must be an ftyp box.
func IsMP4(b []byte) bool {
	return len(b) >= 8 && bytes.Equal(b[4:8], []byte("ftyp"))
}

// SuffixFor returns the conventional file extension for a sniffed image.
func (k ImageKind) SuffixFor() string {
	if k == ImageJPEG {
		return ".jpg"
	}
	return ".png"
}

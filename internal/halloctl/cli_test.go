package halloctl

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hallod/pkg/types"
)

func TestBuildJobInput(t *testing.T) {
	d := t.TempDir()
	img := filepath.Join(d, "face.png")
	aud := filepath.Join(d, "speech.wav")
	if err := os.WriteFile(img, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(aud, []byte("wav-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := BuildJobInput(img, aud, "a prompt")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got, _ := base64.StdEncoding.DecodeString(in.Image); string(got) != "png-bytes" {
		t.Fatalf("image=%q", got)
	}
	if got, _ := base64.StdEncoding.DecodeString(in.Audio); string(got) != "wav-bytes" {
		t.Fatalf("audio=%q", got)
	}
	if in.Prompt != "a prompt" {
		t.Fatalf("prompt=%q", in.Prompt)
	}
}

func TestBuildJobInputMissingFiles(t *testing.T) {
	d := t.TempDir()
	aud := filepath.Join(d, "speech.wav")
	_ = os.WriteFile(aud, []byte("wav"), 0o644)
	if _, err := BuildJobInput(filepath.Join(d, "missing.png"), aud, ""); err == nil {
		t.Fatal("expected error for missing image")
	}
	img := filepath.Join(d, "face.png")
	_ = os.WriteFile(img, []byte("png"), 0o644)
	if _, err := BuildJobInput(img, filepath.Join(d, "missing.wav"), ""); err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestWriteVideo(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.mp4")
	if err := WriteVideo(p, base64.StdEncoding.EncodeToString([]byte("video-bytes"))); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "video-bytes" {
		t.Fatalf("content=%q", b)
	}
	if err := WriteVideo(p, "!!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRunCommandEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.JobResponse{
			Output: &types.JobOutput{Video: base64.StdEncoding.EncodeToString([]byte("generated"))},
		})
	}))
	defer srv.Close()

	d := t.TempDir()
	img := filepath.Join(d, "face.png")
	aud := filepath.Join(d, "speech.wav")
	out := filepath.Join(d, "result.mp4")
	_ = os.WriteFile(img, []byte("png"), 0o644)
	_ = os.WriteFile(aud, []byte("wav"), 0o644)

	root := BuildRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stdout)
	root.SetArgs([]string{"run", "--base-url", srv.URL, "--image", img, "--audio", aud, "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v\n%s", err, stdout.String())
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(b) != "generated" {
		t.Fatalf("output=%q", b)
	}
}

func TestRunCommandJobError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(types.JobResponse{Error: "missing required input: audio", Code: 400})
	}))
	defer srv.Close()

	d := t.TempDir()
	img := filepath.Join(d, "face.png")
	aud := filepath.Join(d, "speech.wav")
	_ = os.WriteFile(img, []byte("png"), 0o644)
	_ = os.WriteFile(aud, []byte("wav"), 0o644)

	root := BuildRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--base-url", srv.URL, "--image", img, "--audio", aud})
	if err := root.Execute(); err == nil {
		t.Fatal("expected job failure error")
	}
}

func TestRunCommandRequiresFlags(t *testing.T) {
	root := BuildRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected missing-flag error")
	}
}

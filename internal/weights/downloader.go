package weights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const markerFile = ".download_complete"

// DefaultBaseURL is the model hub downloads resolve against.
const DefaultBaseURL = "https://huggingface.co"

// Downloader mirrors a manifest of model repositories into a local directory.
// Downloads happen at most once per directory: a marker file records
// completion so warm restarts skip the work.
type Downloader struct {
	// Dir is the weights root directory.
	Dir string
	// BaseURL of the model hub. Defaults to DefaultBaseURL.
	BaseURL string
	// Manifest of sources to mirror. Defaults to DefaultManifest().
	Manifest []Source
	// Client used for HTTP requests. Defaults to http.DefaultClient.
	Client *http.Client
	// Log receives progress events. Defaults to a no-op logger.
	Log zerolog.Logger

	mu   sync.Mutex
	done bool
}

// Ready reports whether a completed download is present on disk.
func (d *Downloader) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return true
	}
	_, err := os.Stat(filepath.Join(d.Dir, markerFile))
	return err == nil
}

// Ensure downloads any missing weights. Safe to call on every job; after the
// first completed run it returns immediately.
func (d *Downloader) Ensure(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return nil
	}
	if _, err := os.Stat(filepath.Join(d.Dir, markerFile)); err == nil {
		d.done = true
		return nil
	}
	manifest := d.Manifest
	if manifest == nil {
		manifest = DefaultManifest()
	}
	d.Log.Info().Str("dir", d.Dir).Msg("downloading model weights, first request only")
	for _, src := range manifest {
		if err := d.mirror(ctx, src); err != nil {
			if src.Optional {
				d.Log.Warn().Str("repo", src.Repo).Err(err).Msg("optional weights skipped")
				continue
			}
			return fmt.Errorf("download %s: %w", src.Repo, err)
		}
	}
	if err := os.WriteFile(filepath.Join(d.Dir, markerFile), nil, 0o644); err != nil {
		return fmt.Errorf("write completion marker: %w", err)
	}
	d.done = true
	d.Log.Info().Msg("model weights complete")
	return nil
}

func (d *Downloader) base() string {
	if d.BaseURL != "" {
		return strings.TrimRight(d.BaseURL, "/")
	}
	return DefaultBaseURL
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// mirror downloads one source. Files already on disk are kept, so an
// interrupted run resumes file by file.
func (d *Downloader) mirror(ctx context.Context, src Source) error {
	files := src.Files
	if len(files) == 0 {
		var err error
		files, err = d.listRepoFiles(ctx, src.Repo)
		if err != nil {
			return err
		}
	}
	destRoot := filepath.Join(d.Dir, src.Dest)
	for _, f := range files {
		dest := filepath.Join(destRoot, filepath.FromSlash(f))
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := d.fetchFile(ctx, src.Repo, f, dest); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		d.Log.Debug().Str("repo", src.Repo).Str("file", f).Msg("weight file downloaded")
	}
	return nil
}

// listRepoFiles asks the hub API for the repo's file list (the snapshot
// equivalent of downloading the whole repository).
func (d *Downloader) listRepoFiles(ctx context.Context, repo string) ([]string, error) {
	u := d.base() + "/api/models/" + repo
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub api %s: %s", u, resp.Status)
	}
	var info struct {
		Siblings []struct {
			RFilename string `json:"rfilename"`
		} `json:"siblings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode hub response: %w", err)
	}
	files := make([]string, 0, len(info.Siblings))
	for _, s := range info.Siblings {
		if s.RFilename != "" {
			files = append(files, s.RFilename)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("repo %s lists no files", repo)
	}
	return files, nil
}

// fetchFile downloads one file to dest via a .part temp file and renames on
// success, so a partially written file is never mistaken for a complete one.
func (d *Downloader) fetchFile(ctx context.Context, repo, file, dest string) error {
	u := d.base() + "/" + repo + "/resolve/main/" + url.PathEscape(file)
	// PathEscape escapes the separators too; restore them.
	u = strings.ReplaceAll(u, "%2F", "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: %s", u, resp.Status)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(part)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(part)
		return err
	}
	return os.Rename(part, dest)
}

package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// AssetName is the catalog file name inside a release.
const AssetName = "standards.yaml"

var (
	ErrAlreadyLatest = errors.New("catalog is already the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// SyncProgress reports one stage of a sync.
type SyncProgress struct {
	Stage   string
	Message string
}

// SyncInput selects what to sync. An empty TargetVersion means the latest
// release; an empty CurrentVersion always syncs.
type SyncInput struct {
	CurrentVersion string
	TargetVersion  string
}

// Syncer downloads catalog releases. A release lives at
// <base>/<version>/standards.yaml next to a checksums.txt; <base>/latest
// holds the newest version tag.
type Syncer struct {
	baseURL string
	client  *http.Client
}

// NewSyncer creates a Syncer for the release base URL.
func NewSyncer(baseURL string, client *http.Client) *Syncer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Syncer{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Sync downloads, verifies and parses a catalog release, then writes it to
// path atomically. The local file is untouched on any failure.
func (s *Syncer) Sync(ctx context.Context, input SyncInput, path string, progress func(SyncProgress)) (*Catalog, error) {
	if progress == nil {
		progress = func(SyncProgress) {}
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(SyncProgress{Stage: "check", Message: "Checking for latest catalog..."})
		latest, err := s.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("check latest: %w", err)
		}
		if input.CurrentVersion != "" && semver.Compare(latest, input.CurrentVersion) <= 0 {
			return nil, ErrAlreadyLatest
		}
		tag = latest
	}
	if !semver.IsValid(tag) || semver.Major(tag) != SupportedMajor {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, tag)
	}

	progress(SyncProgress{Stage: "download", Message: fmt.Sprintf("Downloading catalog %s...", tag)})
	data, err := s.download(ctx, fmt.Sprintf("%s/%s/%s", s.baseURL, tag, AssetName))
	if err != nil {
		return nil, fmt.Errorf("download catalog: %w", err)
	}

	progress(SyncProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := s.download(ctx, fmt.Sprintf("%s/%s/checksums.txt", s.baseURL, tag))
	if err != nil {
		return nil, fmt.Errorf("download checksums: %w", err)
	}
	expected, ok := parseChecksums(sums)[AssetName]
	if !ok {
		return nil, fmt.Errorf("no checksum found for %s in checksums.txt", AssetName)
	}
	if err := verifyChecksum(data, expected); err != nil {
		return nil, err
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cat.Version() != tag {
		return nil, fmt.Errorf("release %s contains catalog version %s", tag, cat.Version())
	}

	progress(SyncProgress{Stage: "apply", Message: fmt.Sprintf("Writing %s...", path)})
	if err := writeAtomic(path, data); err != nil {
		return nil, fmt.Errorf("write catalog: %w", err)
	}

	progress(SyncProgress{Stage: "done", Message: fmt.Sprintf("Catalog updated to %s", tag)})
	return cat, nil
}

// Latest returns the newest published catalog version.
func (s *Syncer) Latest(ctx context.Context) (string, error) {
	data, err := s.download(ctx, s.baseURL+"/latest")
	if err != nil {
		return "", err
	}
	tag := strings.TrimSpace(string(data))
	if !semver.IsValid(tag) {
		return "", fmt.Errorf("invalid version %q", tag)
	}
	return tag, nil
}

func (s *Syncer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

func parseChecksums(data []byte) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		result[parts[1]] = parts[0]
	}
	return result
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	actual := hex.EncodeToString(h[:])
	if !strings.EqualFold(actual, expectedHex) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, actual)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path, re-reads it to check
// the hash, and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".outlines-catalog-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	want := sha256.Sum256(data)
	got := sha256.Sum256(written)
	if !bytes.Equal(want[:], got[:]) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

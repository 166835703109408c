// Package manifest records how a sample file was produced so a run can be
// reproduced from its seed and inputs.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"segprep/internal/stats"
)

type Manifest struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	Seed        uint64       `json:"seed,string"`
	Policy      string       `json:"policy"`
	MinWords    int          `json:"min_words"`
	MaxWords    int          `json:"max_words"`
	Input       string       `json:"input"`
	InputSHA256 string       `json:"input_sha256"`
	Output      string       `json:"output"`
	Records     int          `json:"records"`
	Samples     int          `json:"samples"`
	Errors      int          `json:"errors"`
	Report      stats.Report `json:"report"`
}

// PathFor returns the manifest path that sits next to a samples file:
// out/samples.jsonl -> out/samples.manifest.json.
func PathFor(samplesPath string) string {
	ext := filepath.Ext(samplesPath)
	return strings.TrimSuffix(samplesPath, ext) + ".manifest.json"
}

func Save(path string, m Manifest) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}

// FileDigest returns the hex sha256 of a file's contents.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

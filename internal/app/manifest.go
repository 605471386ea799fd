package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// manifestEntry records one filtered page.
type manifestEntry struct {
	Index  int    `json:"index"`
	Input  string `json:"input"`
	Output string `json:"output"`
	SHA256 string `json:"sha256"`
	Bytes  int    `json:"bytes"`
	Hidden int    `json:"hidden"`
	Target string `json:"target"`
}

// manifestMeta captures run details that aid reproducibility.
type manifestMeta struct {
	Version     string    `json:"version"`
	Keywords    int       `json:"keywords"`
	FilterBody  bool      `json:"filter_body"`
	HTTPCache   bool      `json:"http_cache"`
	GeneratedAt time.Time `json:"generated_at"`
}

func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// writeManifest writes dir/manifest.json listing every result in input order.
func writeManifest(dir string, meta manifestMeta, results []Result) error {
	entries := make([]manifestEntry, 0, len(results))
	for i, r := range results {
		entries = append(entries, manifestEntry{
			Index:  i + 1,
			Input:  r.Input,
			Output: filepath.Base(r.Output),
			SHA256: computeSHA256Hex(r.HTML),
			Bytes:  len(r.HTML),
			Hidden: r.Stats.Hidden,
			Target: string(r.Stats.Target),
		})
	}
	payload := struct {
		Meta  manifestMeta    `json:"meta"`
		Pages []manifestEntry `json:"pages"`
	}{Meta: meta, Pages: entries}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.json"), append(b, '\n'), 0o644)
}

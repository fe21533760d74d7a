// Package luts installs LUT files into the host's LUT directory.
package luts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// validExtensions are the LUT formats the host picks up from its LUT
// directory.
var validExtensions = map[string]bool{
	".cube": true,
	".3dl":  true,
	".lut":  true,
	".dat":  true,
	".olut": true,
}

// Status classifies the outcome of installing one file.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result reports what happened to a single source file.
type Result struct {
	Source string `json:"source"`
	Dest   string `json:"dest,omitempty"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Options controls an install run.
type Options struct {
	DestDir   string
	Overwrite bool
}

// ValidExtension reports whether path has a recognized LUT extension.
func ValidExtension(path string) bool {
	return validExtensions[strings.ToLower(filepath.Ext(path))]
}

// Install copies the given LUT files into opts.DestDir. Files that are
// missing, have an unrecognized extension, or already exist (without
// Overwrite) are skipped rather than aborting the batch.
func Install(files []string, opts Options) ([]Result, error) {
	if len(files) == 0 {
		return nil, errors.New("no LUT files given")
	}
	if strings.TrimSpace(opts.DestDir) == "" {
		return nil, errors.New("destination directory not set")
	}
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return nil, fmt.Errorf("create LUT directory %q: %w", opts.DestDir, err)
	}

	results := make([]Result, 0, len(files))
	for _, src := range files {
		results = append(results, installOne(src, opts))
	}
	return results, nil
}

func installOne(src string, opts Options) Result {
	result := Result{Source: src}

	info, err := os.Stat(src)
	if err != nil {
		result.Status = StatusFailed
		result.Reason = "file not found"
		return result
	}
	if info.IsDir() {
		result.Status = StatusSkipped
		result.Reason = "is a directory"
		return result
	}
	if !ValidExtension(src) {
		result.Status = StatusSkipped
		result.Reason = fmt.Sprintf("unrecognized extension %q", filepath.Ext(src))
		return result
	}

	dest := filepath.Join(opts.DestDir, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil && !opts.Overwrite {
		result.Status = StatusSkipped
		result.Dest = dest
		result.Reason = "already installed (use --overwrite to replace)"
		return result
	}

	if err := copyFile(src, dest); err != nil {
		result.Status = StatusFailed
		result.Reason = err.Error()
		return result
	}
	result.Status = StatusInstalled
	result.Dest = dest
	return result
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}

// Installed counts results with StatusInstalled.
func Installed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusInstalled {
			n++
		}
	}
	return n
}

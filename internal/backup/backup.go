// Package backup exports projects to timestamped .drp archives and
// manages the backup directory.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gradectl/internal/resolve"
)

// Entry is one backup archive on disk.
type Entry struct {
	Path      string    `json:"path"`
	Project   string    `json:"project"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// backupName matches Project_YYYYMMDD_HHMMSS[_note].drp.
var backupName = regexp.MustCompile(`^(.+)_(\d{8})_(\d{6})(?:_(.+))?\.drp$`)

// Filename builds the archive name for a project at the given time.
// Characters the filesystem dislikes are replaced in the project part,
// and the optional note is slugged the same way.
func Filename(project string, at time.Time, note string) string {
	name := sanitize(project) + "_" + at.Format("20060102_150405")
	if note = sanitize(note); note != "" {
		name += "_" + note
	}
	return name + ".drp"
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-_")
}

// Backup exports the current project into dir and returns the written
// entry.
func Backup(ctx context.Context, host resolve.Host, dir, note string) (Entry, error) {
	project, err := host.CurrentProject(ctx)
	if err != nil {
		return Entry{}, err
	}
	name, err := project.Name(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("project name: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("create backup directory: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, Filename(name, now, note))
	if err := host.ExportProject(ctx, name, path); err != nil {
		return Entry{}, fmt.Errorf("export project %q: %w", name, err)
	}

	entry := Entry{Path: path, Project: name, Note: sanitize(note), Timestamp: now.Truncate(time.Second)}
	if info, err := os.Stat(path); err == nil {
		entry.SizeBytes = info.Size()
	}
	return entry, nil
}

// List returns the backups found in dir, newest first. Files that do
// not follow the backup naming convention are ignored.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var entries []Entry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		match := backupName.FindStringSubmatch(file.Name())
		if match == nil {
			continue
		}
		ts, err := time.ParseInLocation("20060102_150405", match[2]+"_"+match[3], time.Local)
		if err != nil {
			continue
		}
		entry := Entry{
			Path:      filepath.Join(dir, file.Name()),
			Project:   match[1],
			Note:      match[4],
			Timestamp: ts,
		}
		if info, err := file.Info(); err == nil {
			entry.SizeBytes = info.Size()
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	return entries, nil
}

// Prune deletes all but the keep newest backups in dir. With dryRun it
// only reports what would go.
func Prune(dir string, keep int, dryRun bool) ([]Entry, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1")
	}
	entries, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) <= keep {
		return nil, nil
	}

	victims := entries[keep:]
	if dryRun {
		return victims, nil
	}
	for _, victim := range victims {
		if err := os.Remove(victim.Path); err != nil {
			return victims, fmt.Errorf("remove %q: %w", victim.Path, err)
		}
	}
	return victims, nil
}

// Restore imports a .drp archive back into the host's project database.
func Restore(ctx context.Context, host resolve.Host, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".drp") {
		return fmt.Errorf("%q is not a .drp archive", path)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file: %w", err)
	}
	if err := host.ImportProject(ctx, path); err != nil {
		return fmt.Errorf("import project: %w", err)
	}
	return nil
}

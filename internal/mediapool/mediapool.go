// Package mediapool walks, reports on, and reorganizes the host media pool.
package mediapool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gradectl/internal/resolve"
)

// Entry is a clip together with the bin path it was found under.
type Entry struct {
	Clip resolve.Clip
	Path string
}

// WalkClips returns every clip in the pool, depth first from the root
// folder, with "/"-joined bin paths.
func WalkClips(ctx context.Context, pool resolve.MediaPool) ([]Entry, error) {
	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}
	var entries []Entry
	err = walkFolder(ctx, root, "", func(clip resolve.Clip, path string) {
		entries = append(entries, Entry{Clip: clip, Path: path})
	})
	return entries, err
}

func walkFolder(ctx context.Context, folder resolve.Folder, parent string, visit func(resolve.Clip, string)) error {
	name, err := folder.Name(ctx)
	if err != nil {
		return fmt.Errorf("folder name: %w", err)
	}
	path := name
	if parent != "" {
		path = parent + "/" + name
	}

	clips, err := folder.Clips(ctx)
	if err != nil {
		return fmt.Errorf("clips in %q: %w", path, err)
	}
	for _, clip := range clips {
		visit(clip, path)
	}

	subs, err := folder.SubFolders(ctx)
	if err != nil {
		return fmt.Errorf("subfolders of %q: %w", path, err)
	}
	for _, sub := range subs {
		if err := walkFolder(ctx, sub, path, visit); err != nil {
			return err
		}
	}
	return nil
}

// Metadata is the subset of clip properties the organizer and stats
// care about. The host exposes several property spellings for the same
// field, so lookups try each in turn.
type Metadata struct {
	Resolution string
	FPS        string
	Codec      string
	Camera     string
	Date       string
	FilePath   string
}

// ReadMetadata extracts organizer metadata from a clip's properties.
func ReadMetadata(ctx context.Context, clip resolve.Clip) (Metadata, error) {
	props, err := clip.Properties(ctx)
	if err != nil {
		return Metadata{}, fmt.Errorf("clip properties: %w", err)
	}

	var meta Metadata
	width := firstProp(props, "Width", "Resolution Width")
	height := firstProp(props, "Height", "Resolution Height")
	if width != "" && height != "" {
		meta.Resolution = width + "x" + height
	} else if res := firstProp(props, "Resolution"); res != "" {
		meta.Resolution = res
	}
	meta.FPS = firstProp(props, "FPS", "Frame Rate")
	meta.Codec = firstProp(props, "Video Codec", "Codec")
	meta.Camera = firstProp(props, "Camera #", "Camera")
	meta.Date = firstProp(props, "Date Created", "Date Modified")
	meta.FilePath = firstProp(props, "File Path", "File Name")
	return meta, nil
}

func firstProp(props map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(props[key]); v != "" {
			return v
		}
	}
	return ""
}

// Stats summarizes the pool contents.
type Stats struct {
	TotalClips   int            `json:"total_clips"`
	TotalBins    int            `json:"total_bins"`
	ByResolution map[string]int `json:"by_resolution"`
	ByCodec      map[string]int `json:"by_codec"`
	EmptyBins    []string       `json:"empty_bins,omitempty"`
}

// CollectStats walks the pool and aggregates clip counts by resolution
// and codec, and lists bins with no clips and no subfolders.
func CollectStats(ctx context.Context, pool resolve.MediaPool) (*Stats, error) {
	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}

	stats := &Stats{
		ByResolution: make(map[string]int),
		ByCodec:      make(map[string]int),
	}
	if err := statsFolder(ctx, root, "", true, stats); err != nil {
		return nil, err
	}
	sort.Strings(stats.EmptyBins)
	return stats, nil
}

func statsFolder(ctx context.Context, folder resolve.Folder, parent string, isRoot bool, stats *Stats) error {
	name, err := folder.Name(ctx)
	if err != nil {
		return err
	}
	path := name
	if parent != "" {
		path = parent + "/" + name
	}
	stats.TotalBins++

	clips, err := folder.Clips(ctx)
	if err != nil {
		return err
	}
	for _, clip := range clips {
		stats.TotalClips++
		meta, err := ReadMetadata(ctx, clip)
		if err != nil {
			return err
		}
		stats.ByResolution[orUnknown(meta.Resolution)]++
		stats.ByCodec[orUnknown(meta.Codec)]++
	}

	subs, err := folder.SubFolders(ctx)
	if err != nil {
		return err
	}
	if !isRoot && len(clips) == 0 && len(subs) == 0 {
		stats.EmptyBins = append(stats.EmptyBins, path)
	}
	for _, sub := range subs {
		if err := statsFolder(ctx, sub, path, false, stats); err != nil {
			return err
		}
	}
	return nil
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

// Search returns clips whose name or file path contains the query,
// case-insensitively.
func Search(ctx context.Context, pool resolve.MediaPool, query string) ([]Entry, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	entries, err := WalkClips(ctx, pool)
	if err != nil {
		return nil, err
	}

	var matches []Entry
	for _, entry := range entries {
		name, err := entry.Clip.Name(ctx)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(name), query) {
			matches = append(matches, entry)
			continue
		}
		path, err := entry.Clip.Property(ctx, "File Path")
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(path), query) {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// PruneEmpty deletes bins that hold no clips and no subfolders,
// bottom-up so emptied parents go too. Returns the paths removed.
func PruneEmpty(ctx context.Context, pool resolve.MediaPool, dryRun bool) ([]string, error) {
	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}

	var removed []string
	for {
		victims, err := emptyLeaves(ctx, root, "")
		if err != nil {
			return removed, err
		}
		if len(victims) == 0 {
			return removed, nil
		}
		for _, victim := range victims {
			removed = append(removed, victim.path)
		}
		if dryRun {
			// Report only the first layer of empties; deeper passes
			// need the actual deletions to expose new leaves.
			return removed, nil
		}
		folders := make([]resolve.Folder, len(victims))
		for i, victim := range victims {
			folders[i] = victim.folder
		}
		if err := pool.DeleteFolders(ctx, folders); err != nil {
			return removed, fmt.Errorf("delete bins: %w", err)
		}
	}
}

type emptyBin struct {
	folder resolve.Folder
	path   string
}

func emptyLeaves(ctx context.Context, folder resolve.Folder, parent string) ([]emptyBin, error) {
	name, err := folder.Name(ctx)
	if err != nil {
		return nil, err
	}
	path := name
	if parent != "" {
		path = parent + "/" + name
	}

	subs, err := folder.SubFolders(ctx)
	if err != nil {
		return nil, err
	}
	var empties []emptyBin
	for _, sub := range subs {
		clips, err := sub.Clips(ctx)
		if err != nil {
			return nil, err
		}
		grandchildren, err := sub.SubFolders(ctx)
		if err != nil {
			return nil, err
		}
		subName, err := sub.Name(ctx)
		if err != nil {
			return nil, err
		}
		if len(clips) == 0 && len(grandchildren) == 0 {
			empties = append(empties, emptyBin{folder: sub, path: path + "/" + subName})
			continue
		}
		deeper, err := emptyLeaves(ctx, sub, path)
		if err != nil {
			return nil, err
		}
		empties = append(empties, deeper...)
	}
	return empties, nil
}

package mediapool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gradectl/internal/resolve"
)

// GroupKey selects the clip property clips are binned by.
type GroupKey string

const (
	ByResolution GroupKey = "resolution"
	ByCodec      GroupKey = "codec"
	ByDate       GroupKey = "date"
	ByCamera     GroupKey = "camera"
)

// GroupKeys lists the supported organize keys.
var GroupKeys = []GroupKey{ByResolution, ByCodec, ByDate, ByCamera}

// ParseGroupKey validates a user-supplied key name.
func ParseGroupKey(s string) (GroupKey, error) {
	key := GroupKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range GroupKeys {
		if key == known {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown organize key %q (resolution, codec, date, camera)", s)
}

// Move is one planned clip relocation.
type Move struct {
	ClipName string `json:"clip"`
	Bin      string `json:"bin"`
}

// OrganizeResult reports what the organizer did (or would do).
type OrganizeResult struct {
	Moves   []Move         `json:"moves"`
	ByBin   map[string]int `json:"by_bin"`
	DryRun  bool           `json:"dry_run"`
	Skipped int            `json:"skipped"`
}

// NoLower keeps acronym codec names like BRAW intact.
var binCaser = cases.Title(language.English, cases.NoLower)

// Organize groups every clip in the pool by the key and moves each
// group into a top-level bin named after the group value. Bins are
// created on demand; existing bins with the same name are reused.
func Organize(ctx context.Context, pool resolve.MediaPool, key GroupKey, dryRun bool) (*OrganizeResult, error) {
	entries, err := WalkClips(ctx, pool)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]resolve.Clip)
	result := &OrganizeResult{ByBin: make(map[string]int), DryRun: dryRun}
	for _, entry := range entries {
		meta, err := ReadMetadata(ctx, entry.Clip)
		if err != nil {
			return nil, err
		}
		bin := binName(key, meta)
		groups[bin] = append(groups[bin], entry.Clip)

		name, err := entry.Clip.Name(ctx)
		if err != nil {
			return nil, err
		}
		result.Moves = append(result.Moves, Move{ClipName: name, Bin: bin})
	}

	binNames := make([]string, 0, len(groups))
	for bin := range groups {
		binNames = append(binNames, bin)
		result.ByBin[bin] = len(groups[bin])
	}
	sort.Strings(binNames)

	if dryRun {
		return result, nil
	}

	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}
	for _, bin := range binNames {
		target, err := getOrCreateBin(ctx, pool, root, bin)
		if err != nil {
			return nil, err
		}
		if err := pool.MoveClips(ctx, groups[bin], target); err != nil {
			return nil, fmt.Errorf("move clips into %q: %w", bin, err)
		}
	}
	return result, nil
}

// binName maps clip metadata to a bin for the given key. Missing
// values land in an Unknown bin rather than failing the batch.
func binName(key GroupKey, meta Metadata) string {
	switch key {
	case ByResolution:
		if meta.Resolution == "" {
			return "Unknown Resolution"
		}
		return meta.Resolution
	case ByCodec:
		if meta.Codec == "" {
			return "Unknown Codec"
		}
		return binCaser.String(meta.Codec)
	case ByCamera:
		if meta.Camera == "" {
			return "Unknown Camera"
		}
		return "Camera " + binCaser.String(meta.Camera)
	case ByDate:
		return dateBin(meta.Date)
	}
	return "Unknown"
}

// dateBin normalizes the host's creation timestamp to YYYY_MM_DD.
func dateBin(value string) string {
	if value == "" {
		return "Unknown Date"
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006_01_02")
		}
	}
	return "Unknown Date"
}

func getOrCreateBin(ctx context.Context, pool resolve.MediaPool, parent resolve.Folder, name string) (resolve.Folder, error) {
	subs, err := parent.SubFolders(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		subName, err := sub.Name(ctx)
		if err != nil {
			return nil, err
		}
		if subName == name {
			return sub, nil
		}
	}
	folder, err := pool.AddSubFolder(ctx, parent, name)
	if err != nil {
		return nil, fmt.Errorf("create bin %q: %w", name, err)
	}
	return folder, nil
}

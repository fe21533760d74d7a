// Package rename plans batch renames for media-pool clips.
//
// Planning is separated from execution so dry runs and collision checks
// see exactly the names the host would receive.
package rename

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gradectl/internal/resolve"
)

// Rule describes one rename strategy. Exactly one of the strategy
// fields must be set.
type Rule struct {
	Prefix string
	Suffix string

	// Replace rewrites names matching Pattern with Template
	// (regexp replacement syntax, $1 for groups).
	Pattern  string
	Template string

	// Sequential numbers clips with SequenceTemplate, which must
	// contain {n}. Numbering starts at Start, zero padded to Digits.
	SequenceTemplate string
	Start            int
	Digits           int

	// MetadataTemplate builds names from clip metadata fields, for
	// example "Scene_{Scene}_Shot_{Shot}". Clips missing a referenced
	// field are skipped.
	MetadataTemplate string
}

// Change is one planned rename.
type Change struct {
	Clip    resolve.Clip `json:"-"`
	Folder  string       `json:"folder"`
	OldName string       `json:"old_name"`
	NewName string       `json:"new_name"`
}

// Plan is the full set of changes a rule produces.
type Plan struct {
	Changes []Change `json:"changes"`
	Skipped []string `json:"skipped,omitempty"`
}

var metadataField = regexp.MustCompile(`\{(\w+)\}`)

// Validate checks that exactly one strategy is configured and that its
// parameters are usable.
func (r Rule) Validate() error {
	set := 0
	for _, active := range []bool{
		r.Prefix != "",
		r.Suffix != "",
		r.Pattern != "",
		r.SequenceTemplate != "",
		r.MetadataTemplate != "",
	} {
		if active {
			set++
		}
	}
	if set == 0 {
		return errors.New("no rename strategy given")
	}
	if set > 1 {
		return errors.New("rename strategies are mutually exclusive")
	}
	if r.Pattern != "" {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}
	if r.SequenceTemplate != "" {
		if !strings.Contains(r.SequenceTemplate, "{n}") {
			return errors.New("sequential template must contain {n}")
		}
		if r.Digits < 0 || r.Digits > 10 {
			return errors.New("digits must be between 0 and 10")
		}
	}
	if r.MetadataTemplate != "" && !metadataField.MatchString(r.MetadataTemplate) {
		return errors.New("metadata template must contain at least one {FieldName}")
	}
	return nil
}

// ClipEntry pairs a clip with the folder path it was found under.
type ClipEntry struct {
	Clip   resolve.Clip
	Folder string
}

// BuildPlan applies the rule to the clips and returns every rename the
// host would be asked to make. Clips whose name would not change are
// omitted. An error is returned when two clips would end up with the
// same new name.
func BuildPlan(ctx context.Context, clips []ClipEntry, rule Rule) (*Plan, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{}
	seen := make(map[string]string)
	counter := rule.Start

	for _, entry := range clips {
		oldName, err := entry.Clip.Name(ctx)
		if err != nil {
			return nil, fmt.Errorf("read clip name: %w", err)
		}

		var newName string
		switch {
		case rule.Prefix != "":
			newName = rule.Prefix + oldName
		case rule.Suffix != "":
			newName = suffixed(oldName, rule.Suffix)
		case rule.Pattern != "":
			re := regexp.MustCompile(rule.Pattern)
			newName = re.ReplaceAllString(oldName, rule.Template)
		case rule.SequenceTemplate != "":
			number := fmt.Sprintf("%0*d", rule.Digits, counter)
			newName = strings.ReplaceAll(rule.SequenceTemplate, "{n}", number)
			counter++
		case rule.MetadataTemplate != "":
			name, ok, err := fromMetadata(ctx, entry.Clip, rule.MetadataTemplate)
			if err != nil {
				return nil, err
			}
			if !ok {
				plan.Skipped = append(plan.Skipped, oldName)
				continue
			}
			newName = name
		}

		if newName == oldName || strings.TrimSpace(newName) == "" {
			continue
		}
		if prior, dup := seen[newName]; dup {
			return nil, fmt.Errorf("name collision: %q and %q both rename to %q", prior, oldName, newName)
		}
		seen[newName] = oldName
		plan.Changes = append(plan.Changes, Change{
			Clip:    entry.Clip,
			Folder:  entry.Folder,
			OldName: oldName,
			NewName: newName,
		})
	}
	return plan, nil
}

// Apply performs the planned renames against the host. It stops at the
// first failure and reports how many renames had succeeded.
func (p *Plan) Apply(ctx context.Context) (int, error) {
	for i, change := range p.Changes {
		if err := change.Clip.SetName(ctx, change.NewName); err != nil {
			return i, fmt.Errorf("rename %q to %q: %w", change.OldName, change.NewName, err)
		}
	}
	return len(p.Changes), nil
}

// suffixed inserts the suffix before the file extension when the clip
// name carries one.
func suffixed(name, suffix string) string {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		return name[:dot] + suffix + name[dot:]
	}
	return name + suffix
}

func fromMetadata(ctx context.Context, clip resolve.Clip, template string) (string, bool, error) {
	name := template
	for _, match := range metadataField.FindAllStringSubmatch(template, -1) {
		field := match[1]
		value, err := clip.Property(ctx, field)
		if err != nil {
			return "", false, fmt.Errorf("read property %q: %w", field, err)
		}
		if strings.TrimSpace(value) == "" {
			return "", false, nil
		}
		name = strings.ReplaceAll(name, "{"+field+"}", value)
	}
	return name, true, nil
}

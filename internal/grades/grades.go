// Package grades copies grades between timeline items and applies CDL,
// LUT, and grade-exchange templates to targets.
package grades

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gradectl/internal/cdl"
	"gradectl/internal/resolve"
)

// CopyOptions narrows what Copy carries across.
type CopyOptions struct {
	LUTsOnly bool
	CDLOnly  bool

	// Node restricts the copy to a single 1-based node. Zero copies
	// every node both items have.
	Node int
}

// CopyResult counts what was written per target.
type CopyResult struct {
	Target      string `json:"target"`
	NodesCopied int    `json:"nodes_copied"`
}

// Copy transfers the source item's grade to each target, node by node.
// Only nodes present on both items are touched.
func Copy(ctx context.Context, source resolve.Item, targets []resolve.Item, opts CopyOptions) ([]CopyResult, error) {
	if opts.LUTsOnly && opts.CDLOnly {
		return nil, fmt.Errorf("luts-only and cdl-only are mutually exclusive")
	}

	sourceNodes, err := source.NodeCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("source node count: %w", err)
	}
	if sourceNodes == 0 {
		return nil, fmt.Errorf("source item has no nodes")
	}
	if opts.Node > sourceNodes {
		return nil, fmt.Errorf("node %d out of range (source has %d nodes)", opts.Node, sourceNodes)
	}

	var results []CopyResult
	for _, target := range targets {
		name, err := target.Name(ctx)
		if err != nil {
			return results, fmt.Errorf("target name: %w", err)
		}
		targetNodes, err := target.NodeCount(ctx)
		if err != nil {
			return results, fmt.Errorf("node count of %q: %w", name, err)
		}

		first, last := 1, min(sourceNodes, targetNodes)
		if opts.Node > 0 {
			if opts.Node > targetNodes {
				continue
			}
			first, last = opts.Node, opts.Node
		}

		copied := 0
		for node := first; node <= last; node++ {
			if err := copyNode(ctx, source, target, node, opts); err != nil {
				return results, fmt.Errorf("copy node %d to %q: %w", node, name, err)
			}
			copied++
		}
		results = append(results, CopyResult{Target: name, NodesCopied: copied})
	}
	return results, nil
}

func copyNode(ctx context.Context, source, target resolve.Item, node int, opts CopyOptions) error {
	if !opts.CDLOnly {
		lut, err := source.LUT(ctx, node)
		if err != nil {
			return fmt.Errorf("read lut: %w", err)
		}
		if lut != "" {
			if err := target.SetLUT(ctx, node, lut); err != nil {
				return fmt.Errorf("set lut: %w", err)
			}
		}
	}
	if !opts.LUTsOnly {
		correction, err := source.NodeColorData(ctx, node)
		if err != nil {
			return fmt.Errorf("read color data: %w", err)
		}
		if err := target.SetNodeColorData(ctx, node, correction); err != nil {
			return fmt.Errorf("set color data: %w", err)
		}
	}
	return nil
}

// ApplyCDL writes one correction to the given node of every target.
func ApplyCDL(ctx context.Context, targets []resolve.Item, node int, correction cdl.ColorCorrection) (int, error) {
	if err := correction.Validate(); err != nil {
		return 0, err
	}
	if node < 1 {
		return 0, fmt.Errorf("node must be 1 or higher")
	}
	applied := 0
	for _, target := range targets {
		if err := target.SetNodeColorData(ctx, node, correction); err != nil {
			name, _ := target.Name(ctx)
			return applied, fmt.Errorf("apply cdl to %q: %w", name, err)
		}
		applied++
	}
	return applied, nil
}

// ApplyLUT sets a LUT path on the given node of every target.
func ApplyLUT(ctx context.Context, targets []resolve.Item, node int, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("lut path is empty")
	}
	if node < 1 {
		return 0, fmt.Errorf("node must be 1 or higher")
	}
	applied := 0
	for _, target := range targets {
		if err := target.SetLUT(ctx, node, path); err != nil {
			name, _ := target.Name(ctx)
			return applied, fmt.Errorf("apply lut to %q: %w", name, err)
		}
		applied++
	}
	return applied, nil
}

// ApplyDRX loads a grade-exchange template onto every target. The
// template must exist locally so a typo fails before touching the
// host.
func ApplyDRX(ctx context.Context, targets []resolve.Item, path string, mode resolve.GradeMode) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".drx") {
		return 0, fmt.Errorf("%q is not a .drx template", path)
	}
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("template file: %w", err)
	}
	applied := 0
	for _, target := range targets {
		if err := target.ApplyGradeFromDRX(ctx, path, mode); err != nil {
			name, _ := target.Name(ctx)
			return applied, fmt.Errorf("apply template to %q: %w", name, err)
		}
		applied++
	}
	return applied, nil
}

package mediapool

import (
	"context"
	"fmt"

	"gradectl/internal/resolve"
)

// TreeNode is one bin in the pool hierarchy.
type TreeNode struct {
	Name      string     `json:"name"`
	ClipCount int        `json:"clip_count"`
	Children  []TreeNode `json:"children,omitempty"`
}

// BuildTree snapshots the bin hierarchy starting at the root folder.
func BuildTree(ctx context.Context, pool resolve.MediaPool) (*TreeNode, error) {
	root, err := pool.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("root folder: %w", err)
	}
	node, err := buildNode(ctx, root)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func buildNode(ctx context.Context, folder resolve.Folder) (TreeNode, error) {
	name, err := folder.Name(ctx)
	if err != nil {
		return TreeNode{}, err
	}
	clips, err := folder.Clips(ctx)
	if err != nil {
		return TreeNode{}, err
	}
	node := TreeNode{Name: name, ClipCount: len(clips)}

	subs, err := folder.SubFolders(ctx)
	if err != nil {
		return TreeNode{}, err
	}
	for _, sub := range subs {
		child, err := buildNode(ctx, sub)
		if err != nil {
			return TreeNode{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

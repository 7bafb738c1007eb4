package services

import (
	"strings"

	"github.com/chmouel/lazydiff/internal/models"
)

// NodeKind distinguishes directories from files in a change tree.
type NodeKind int

// Node kinds.
const (
	NodeDirectory NodeKind = iota
	NodeFile
)

// ChangeTreeNode is a directory or file in the hierarchical change view.
type ChangeTreeNode struct {
	Name     string // last path segment
	Path     string // "/"-joined segments from the top level down to this node
	Kind     NodeKind
	Depth    int // number of segments above this node
	Children []*ChangeTreeNode
	Record   *models.ChangeRecord // files only
	Group    models.Group
}

// IsDir returns true if this node is a directory.
func (n *ChangeTreeNode) IsDir() bool {
	return n.Kind == NodeDirectory
}

// Descendants counts every node below n.
func (n *ChangeTreeNode) Descendants() int {
	total := 0
	for _, child := range n.Children {
		total += 1 + child.Descendants()
	}
	return total
}

// CollectRecords returns the change records of every file under n.
func (n *ChangeTreeNode) CollectRecords() []models.ChangeRecord {
	var out []models.ChangeRecord
	if n.Record != nil {
		out = append(out, *n.Record)
	}
	for _, child := range n.Children {
		out = append(out, child.CollectRecords()...)
	}
	return out
}

// BuildChangeTree turns one group's records into top-level tree nodes.
// Children keep the order in which their paths were first seen, which is
// the order git reported the files in; nothing is sorted.
func BuildChangeTree(records []models.ChangeRecord, group models.Group) []*ChangeTreeNode {
	var roots []*ChangeTreeNode
	byPath := make(map[string]*ChangeTreeNode)

	for i := range records {
		record := &records[i]
		segments := splitSegments(record.Path)
		running := ""
		for depth, segment := range segments {
			parentPath := running
			if running == "" {
				running = segment
			} else {
				running += "/" + segment
			}
			if _, seen := byPath[running]; seen {
				continue
			}

			node := &ChangeTreeNode{
				Name:  segment,
				Path:  running,
				Kind:  NodeDirectory,
				Depth: depth,
				Group: group,
			}
			if depth == len(segments)-1 {
				node.Kind = NodeFile
				node.Record = record
			}
			byPath[running] = node

			if parentPath == "" {
				roots = append(roots, node)
				continue
			}
			if parent, ok := byPath[parentPath]; ok && parent.IsDir() {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return roots
}

// FlattenChangeTree returns the pre-order display sequence of the tree.
// Children of a directory are skipped when its path is collapsed.
func FlattenChangeTree(roots []*ChangeTreeNode, collapsed PathSet) []*ChangeTreeNode {
	var out []*ChangeTreeNode
	var walk func(nodes []*ChangeTreeNode)
	walk = func(nodes []*ChangeTreeNode) {
		for _, node := range nodes {
			out = append(out, node)
			if node.IsDir() && !collapsed.Has(node.Path) {
				walk(node.Children)
			}
		}
	}
	walk(roots)
	return out
}

func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

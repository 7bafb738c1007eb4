package services

import "github.com/chmouel/lazydiff/internal/models"

// ViewMode selects how the change list is laid out.
type ViewMode int

// View modes.
const (
	ViewFlat ViewMode = iota
	ViewTree
)

// String returns the config name of the mode.
func (v ViewMode) String() string {
	if v == ViewTree {
		return "tree"
	}
	return "flat"
}

// ParseViewMode maps a config value to a ViewMode, defaulting to flat.
func ParseViewMode(s string) ViewMode {
	if s == "tree" {
		return ViewTree
	}
	return ViewFlat
}

// DisplayRow is one addressable line of the change list. The concrete
// types are GroupRow, DirectoryRow and FileRow; no other type implements it.
type DisplayRow interface {
	displayRow()
}

// GroupRow is a section header such as "Changes" or "Staged Changes".
type GroupRow struct {
	Group models.Group
	Label string
	Count int
}

// DirectoryRow is a directory in tree mode.
type DirectoryRow struct {
	Node *ChangeTreeNode
}

// FileRow is a changed file. Node is set in tree mode only.
type FileRow struct {
	Record models.ChangeRecord
	Group  models.Group
	Node   *ChangeTreeNode
}

func (GroupRow) displayRow()     {}
func (DirectoryRow) displayRow() {}
func (FileRow) displayRow()      {}

// RebuildRows lays out both groups in display order. Empty groups are
// omitted entirely, header included.
func RebuildRows(unstaged, staged []models.ChangeRecord, mode ViewMode, collapsed PathSet) []DisplayRow {
	var rows []DisplayRow
	rows = appendGroup(rows, unstaged, models.GroupUnstaged, mode, collapsed)
	rows = appendGroup(rows, staged, models.GroupStaged, mode, collapsed)
	return rows
}

func appendGroup(rows []DisplayRow, records []models.ChangeRecord, group models.Group, mode ViewMode, collapsed PathSet) []DisplayRow {
	if len(records) == 0 {
		return rows
	}
	rows = append(rows, GroupRow{Group: group, Label: group.String(), Count: len(records)})

	if mode == ViewFlat {
		for _, record := range records {
			rows = append(rows, FileRow{Record: record, Group: group})
		}
		return rows
	}

	for _, node := range FlattenChangeTree(BuildChangeTree(records, group), collapsed) {
		if node.IsDir() {
			rows = append(rows, DirectoryRow{Node: node})
			continue
		}
		rows = append(rows, FileRow{Record: *node.Record, Group: group, Node: node})
	}
	return rows
}

// RowGroup returns the group a row belongs to.
func RowGroup(rows []DisplayRow, index int) (models.Group, bool) {
	if index < 0 || index >= len(rows) {
		return models.GroupUnstaged, false
	}
	for i := index; i >= 0; i-- {
		switch row := rows[i].(type) {
		case GroupRow:
			return row.Group, true
		case FileRow:
			return row.Group, true
		case DirectoryRow:
			continue
		}
	}
	return models.GroupUnstaged, false
}

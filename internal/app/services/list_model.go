package services

import "github.com/chmouel/lazydiff/internal/models"

// ListModel holds the change lists and the view state derived from them.
// Rows are recomputed from source state on every call.
type ListModel struct {
	Unstaged  []models.ChangeRecord
	Staged    []models.ChangeRecord
	Mode      ViewMode
	Collapsed PathSet
	Selection PathSet
}

// NewListModel creates an empty ListModel in the given mode.
func NewListModel(mode ViewMode) *ListModel {
	return &ListModel{
		Mode:      mode,
		Collapsed: NewPathSet(),
		Selection: NewPathSet(),
	}
}

// SetChanges replaces both change lists. Selection and collapse state are
// kept by path.
func (l *ListModel) SetChanges(unstaged, staged []models.ChangeRecord) {
	l.Unstaged = unstaged
	l.Staged = staged
}

// Rows returns the current display sequence.
func (l *ListModel) Rows() []DisplayRow {
	return RebuildRows(l.Unstaged, l.Staged, l.Mode, l.Collapsed)
}

// ToggleMode switches between flat and tree layouts.
func (l *ListModel) ToggleMode() {
	if l.Mode == ViewFlat {
		l.Mode = ViewTree
		return
	}
	l.Mode = ViewFlat
}

// ToggleCollapse flips the collapsed state of a directory path.
func (l *ListModel) ToggleCollapse(path string) {
	if path == "" {
		return
	}
	l.Collapsed.Toggle(path)
}

// ToggleSelection flips membership of a single file path.
func (l *ListModel) ToggleSelection(path string) {
	l.Selection.Toggle(path)
}

// IsSelected reports whether path is selected.
func (l *ListModel) IsSelected(path string) bool {
	return l.Selection.Has(path)
}

// GroupRecords returns the records of a group.
func (l *ListModel) GroupRecords(group models.Group) []models.ChangeRecord {
	if group == models.GroupStaged {
		return l.Staged
	}
	return l.Unstaged
}

// ToggleGroupSelection deselects every record when all of them are already
// selected, and selects all of them otherwise. A partially selected group
// therefore becomes fully selected.
func (l *ListModel) ToggleGroupSelection(records []models.ChangeRecord) {
	if len(records) == 0 {
		return
	}
	all := true
	for _, r := range records {
		if !l.Selection.Has(r.Path) {
			all = false
			break
		}
	}
	for _, r := range records {
		if all {
			l.Selection.Remove(r.Path)
		} else {
			l.Selection.Add(r.Path)
		}
	}
}

// GroupSelectionCount returns how many records of the group are selected.
func (l *ListModel) GroupSelectionCount(group models.Group) int {
	n := 0
	for _, r := range l.GroupRecords(group) {
		if l.Selection.Has(r.Path) {
			n++
		}
	}
	return n
}

// SelectedChanges resolves the selection against the current lists,
// unstaged first. Paths that are no longer present are skipped.
func (l *ListModel) SelectedChanges() []models.SelectedChange {
	var out []models.SelectedChange
	for _, r := range l.Unstaged {
		if l.Selection.Has(r.Path) {
			out = append(out, models.SelectedChange{Record: r, Group: models.GroupUnstaged})
		}
	}
	for _, r := range l.Staged {
		if l.Selection.Has(r.Path) {
			out = append(out, models.SelectedChange{Record: r, Group: models.GroupStaged})
		}
	}
	return out
}

// Total returns the number of changed records across both groups.
func (l *ListModel) Total() int {
	return len(l.Unstaged) + len(l.Staged)
}

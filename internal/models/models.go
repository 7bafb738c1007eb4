// Package models defines the data objects shared across lazydiff packages.
package models

import "strings"

// Group identifies the section of the change list a file belongs to.
type Group int

// Change list groups, in display order.
const (
	GroupUnstaged Group = iota
	GroupStaged
)

// String returns the group header label.
func (g Group) String() string {
	if g == GroupStaged {
		return "Staged Changes"
	}
	return "Changes"
}

// Staged reports whether the group holds index changes.
func (g Group) Staged() bool {
	return g == GroupStaged
}

// UntrackedCode is the porcelain XY code for untracked files.
const UntrackedCode = "??"

// ChangeRecord is a single changed file as reported by git status.
type ChangeRecord struct {
	Path       string
	StatusCode string // two-character XY code, space for unmodified
	Status     string // normalised label for the group it lives in (M, A, D, R, C, U, ??)
	OldPath    string // set for renames and copies
}

// IsUntracked reports whether the record describes an untracked file.
func (c ChangeRecord) IsUntracked() bool {
	return c.StatusCode == UntrackedCode || c.Status == UntrackedCode
}

// SelectedChange is a change record tagged with the group it was selected in.
type SelectedChange struct {
	Record ChangeRecord
	Group  Group
}

// CommitRecord is a single history entry.
type CommitRecord struct {
	Hash    string
	Author  string
	Message string
	Date    string
}

// ShortHash returns the abbreviated commit hash.
func (c CommitRecord) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Banner is the header written above a commit diff in exports.
func (c CommitRecord) Banner() string {
	return c.Hash + " - " + c.Message
}

// StatusLabel normalises an XY code into the label shown for the given group.
// Staged rows use the index column, unstaged rows the worktree column.
func StatusLabel(code string, group Group) string {
	if code == UntrackedCode {
		return UntrackedCode
	}
	if len(code) != 2 {
		return strings.TrimSpace(code)
	}
	c := code[1]
	if group == GroupStaged {
		c = code[0]
	}
	if c == ' ' || c == '.' {
		return ""
	}
	return string(c)
}

// DescribeStatus returns a human readable name for a status label.
func DescribeStatus(label string) string {
	switch label {
	case "M":
		return "modified"
	case "A":
		return "added"
	case "D":
		return "deleted"
	case "R":
		return "renamed"
	case "C":
		return "copied"
	case "U":
		return "conflict"
	case "T":
		return "type changed"
	case UntrackedCode:
		return "untracked"
	default:
		return "changed"
	}
}

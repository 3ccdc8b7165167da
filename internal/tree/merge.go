package tree

import (
	"errors"
	"fmt"
	"strings"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/pkg/utils"
)

var (
	// ErrOrphanRow marks a record whose key prefix is not present in the tree.
	ErrOrphanRow = errors.New("orphan row")
	// ErrPathConflict is returned when a key path runs into a leaf.
	ErrPathConflict = errors.New("key path runs into a leaf")
)

// MergeMode selects what Merge does with a record whose prefix is missing.
type MergeMode int

const (
	// MergeStrict fails on the first orphan record.
	MergeStrict MergeMode = iota
	// MergeLenient creates the missing branch and reports the record.
	MergeLenient
)

// ParseMergeMode maps a configured mode name to a MergeMode.
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", model.MergeStrict:
		return MergeStrict, nil
	case model.MergeLenient:
		return MergeLenient, nil
	default:
		return MergeStrict, fmt.Errorf("unknown merge mode: %s", s)
	}
}

// MergeSpec describes how a secondary dataset attaches to an existing tree.
type MergeSpec struct {
	Source        string   // dataset name, used in error messages
	PrefixColumns []string // columns walked from the root
	PrefixLabels  []string // dimension label for each prefix column
	ExtraColumn   string   // column whose values key the new dimension
	ExtraLabel    string   // label of the new dimension (defaults to ExtraColumn)
	ValueColumn   string
	Mode          MergeMode
}

// Segment is one label=value step of a key path.
type Segment struct {
	Label string
	Key   string
}

// KeyPath identifies a node by the steps taken from the root.
type KeyPath []Segment

func (p KeyPath) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Label + "=" + s.Key
	}
	return strings.Join(parts, "/")
}

// OrphanRowError reports a record whose prefix does not exist in the tree.
type OrphanRowError struct {
	Source string
	Path   KeyPath
}

func (e *OrphanRowError) Error() string {
	return fmt.Sprintf("orphan row in %s: %s is not present in the tree", e.Source, e.Path)
}

func (e *OrphanRowError) Unwrap() error { return ErrOrphanRow }

// MergeStats summarises a Merge call.
type MergeStats struct {
	Merged      int
	Overwritten int
	Orphans     []KeyPath
}

// Merge attaches every record to the node found by walking the record's
// prefix values from root, under a dimension labelled spec.ExtraLabel.
// The record's ExtraColumn value keys its ValueColumn leaf; an existing key
// is overwritten, so merging the same record twice leaves the tree unchanged.
func Merge(root Node, records []model.Record, spec MergeSpec) (MergeStats, error) {
	var stats MergeStats
	extraLabel := spec.ExtraLabel
	if extraLabel == "" {
		extraLabel = spec.ExtraColumn
	}

	for _, rec := range records {
		node, path, orphan, err := descend(root, rec, spec)
		if err != nil {
			return stats, err
		}
		if orphan {
			stats.Orphans = append(stats.Orphans, path)
		}

		dim := node.AddDimension(extraLabel)
		key := rec[spec.ExtraColumn]
		if _, exists := dim.Get(key); exists {
			stats.Overwritten++
		}
		dim.Set(key, Leaf{Value: utils.ParseValue(rec[spec.ValueColumn])})
		stats.Merged++
	}
	return stats, nil
}

// descend walks the prefix of rec and returns the terminal branch. In lenient
// mode missing steps are created and marked, and orphan is set for every row
// whose path passes through a marked branch.
func descend(root Node, rec model.Record, spec MergeSpec) (*Branch, KeyPath, bool, error) {
	path := make(KeyPath, len(spec.PrefixColumns))
	for i, col := range spec.PrefixColumns {
		path[i] = Segment{Label: labelFor(spec.PrefixLabels, spec.PrefixColumns, i), Key: rec[col]}
	}

	cur, ok := root.(*Branch)
	if !ok {
		return nil, path, false, fmt.Errorf("%w: root of %s merge", ErrPathConflict, spec.Source)
	}

	orphan := false
	for i, seg := range path {
		dim, found := cur.Dimension(seg.Label)
		if !found {
			if spec.Mode != MergeLenient {
				return nil, path, false, &OrphanRowError{Source: spec.Source, Path: path}
			}
			orphan = true
			dim = cur.AddDimension(seg.Label)
		}

		child, found := dim.Get(seg.Key)
		if !found {
			if spec.Mode != MergeLenient {
				return nil, path, false, &OrphanRowError{Source: spec.Source, Path: path}
			}
			child = &Branch{orphan: true}
			dim.Set(seg.Key, child)
		}

		next, isBranch := child.(*Branch)
		if !isBranch {
			return nil, path, false, fmt.Errorf("%w: %s in %s", ErrPathConflict, path[:i+1], spec.Source)
		}
		// Rows under a branch an earlier lenient merge created are still
		// detached from the primary dataset.
		if next.orphan {
			orphan = true
		}
		cur = next
	}
	return cur, path, orphan, nil
}

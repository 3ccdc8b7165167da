package tree

import (
	"errors"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/pkg/utils"
)

// ErrNoKeyColumns is returned when Build is called without key columns.
var ErrNoKeyColumns = errors.New("at least one key column is required")

// Build pivots records into a nested tree keyed by keyColumns in order.
//
// Each level is a branch whose dimension is labelled with labels[d] (or the
// column name when labels is short) and whose keys are the distinct values of
// keyColumns[d] in first-occurrence order. Below the last key column the
// valueColumn cells of the remaining records become the leaf: a bare Leaf when
// exactly one record matched, a LeafList otherwise.
func Build(records []model.Record, keyColumns, labels []string, valueColumn string) (Node, error) {
	if len(keyColumns) == 0 {
		return nil, ErrNoKeyColumns
	}
	return build(records, keyColumns, labels, valueColumn, 0), nil
}

func build(records []model.Record, keyColumns, labels []string, valueColumn string, level int) Node {
	if level >= len(keyColumns) {
		values := make([]interface{}, len(records))
		for i, rec := range records {
			values[i] = utils.ParseValue(rec[valueColumn])
		}
		if len(values) == 1 {
			return Leaf{Value: values[0]}
		}
		return LeafList{Values: values}
	}

	col := keyColumns[level]
	var order []string
	groups := make(map[string][]model.Record)
	for _, rec := range records {
		key := rec[col]
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	b := NewBranch(labelFor(labels, keyColumns, level))
	dim := b.dims[0]
	for _, key := range order {
		dim.Set(key, build(groups[key], keyColumns, labels, valueColumn, level+1))
	}
	return b
}

func labelFor(labels, columns []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return columns[i]
}

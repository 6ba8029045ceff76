package core

// JoinKeyword is the only join kind used when composing exports.
const JoinKeyword = "JOIN"

// Join is one (table, predicate) pair of a join specification.
type Join struct {
	Table string `json:"table"`
	On    string `json:"on"`
}

// JoinSpec is an ordered list of joins applied left to right to a base table.
type JoinSpec []Join

// ZipJoins pairs tables with conditions by position.
// It returns nil, meaning no join, when either list is empty or the
// lengths differ.
func ZipJoins(tables, conditions []string) JoinSpec {
	if len(tables) == 0 || len(conditions) == 0 || len(tables) != len(conditions) {
		return nil
	}
	spec := make(JoinSpec, len(tables))
	for i := range tables {
		spec[i] = Join{Table: tables[i], On: conditions[i]}
	}
	return spec
}

package sqlbuild

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// Select is a SELECT statement built from ordered clauses:
// SELECT, FROM, zero or more JOIN ... ON, and an optional LIMIT.
type Select struct {
	columns []string
	from    string
	joins   []core.Join
	limit   int
	limited bool
}

// NewSelect starts a SELECT over from. No columns means *.
func NewSelect(from string, columns ...string) *Select {
	return &Select{from: from, columns: columns}
}

// Join appends one JOIN clause. Order of calls is preserved.
func (s *Select) Join(table, on string) *Select {
	s.joins = append(s.joins, core.Join{Table: table, On: on})
	return s
}

// Limit caps the number of rows returned.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	s.limited = true
	return s
}

// Clauses returns the statement's clauses in order.
func (s *Select) Clauses() []string {
	cols := "*"
	if len(s.columns) > 0 {
		cols = strings.Join(s.columns, ", ")
	}
	clauses := []string{"SELECT " + cols, "FROM " + s.from}
	for _, j := range s.joins {
		clauses = append(clauses, core.JoinKeyword+" "+j.Table+" ON "+j.On)
	}
	if s.limited {
		clauses = append(clauses, "LIMIT "+strconv.Itoa(s.limit))
	}
	return clauses
}

// String renders the statement.
func (s *Select) String() string {
	return strings.Join(s.Clauses(), " ")
}

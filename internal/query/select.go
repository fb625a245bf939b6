package query

import (
	"fmt"
	"strings"
)

// Direction is a validated ORDER BY direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts exactly "asc" or "desc".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

type predicate struct {
	column string
	value  any
}

type ordering struct {
	expr string
	dir  Direction
}

// Select accumulates a SELECT statement. Identifiers passed to it must come
// from code, never from requests; every value is bound as a $n parameter.
type Select struct {
	from    string
	columns []string
	joins   []string
	where   []predicate
	groupBy []string
	orderBy []ordering
	limit   *int
	offset  *int
}

func From(table string) *Select {
	return &Select{from: table}
}

func (s *Select) Columns(cols ...string) *Select {
	s.columns = append(s.columns, cols...)
	return s
}

func (s *Select) LeftJoin(table, on string) *Select {
	s.joins = append(s.joins, fmt.Sprintf("LEFT JOIN %s ON %s", table, on))
	return s
}

// WhereEq adds "column = $n" bound to value. Predicates are AND-ed.
func (s *Select) WhereEq(column string, value any) *Select {
	s.where = append(s.where, predicate{column: column, value: value})
	return s
}

func (s *Select) GroupBy(cols ...string) *Select {
	s.groupBy = append(s.groupBy, cols...)
	return s
}

func (s *Select) OrderBy(expr string, dir Direction) *Select {
	s.orderBy = append(s.orderBy, ordering{expr: expr, dir: dir})
	return s
}

func (s *Select) Limit(n int) *Select {
	s.limit = &n
	return s
}

func (s *Select) Offset(n int) *Select {
	s.offset = &n
	return s
}

// Build renders the statement and its arguments in placeholder order.
func (s *Select) Build() (string, []any) {
	var b strings.Builder
	cols := "*"
	if len(s.columns) > 0 {
		cols = strings.Join(s.columns, ", ")
	}
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, s.from)
	args := s.writeBody(&b)

	if len(s.orderBy) > 0 {
		parts := make([]string, len(s.orderBy))
		for i, o := range s.orderBy {
			parts[i] = fmt.Sprintf("%s %s", o.expr, o.dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if s.limit != nil {
		args = append(args, *s.limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if s.offset != nil {
		args = append(args, *s.offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

// Count renders a statement counting the rows Build would return before
// ordering and pagination.
func (s *Select) Count() (string, []any) {
	var b strings.Builder
	if len(s.groupBy) == 0 {
		fmt.Fprintf(&b, "SELECT COUNT(*) FROM %s", s.from)
		return b.String(), s.writeBody(&b)
	}
	fmt.Fprintf(&b, "SELECT COUNT(*) FROM (SELECT 1 FROM %s", s.from)
	args := s.writeBody(&b)
	b.WriteString(") AS matched")
	return b.String(), args
}

func (s *Select) writeBody(b *strings.Builder) []any {
	for _, j := range s.joins {
		b.WriteString(" " + j)
	}
	args := make([]any, 0, len(s.where)+2)
	if len(s.where) > 0 {
		conds := make([]string, len(s.where))
		for i, p := range s.where {
			args = append(args, p.value)
			conds[i] = fmt.Sprintf("%s = $%d", p.column, len(args))
		}
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if len(s.groupBy) > 0 {
		b.WriteString(" GROUP BY " + strings.Join(s.groupBy, ", "))
	}
	return args
}

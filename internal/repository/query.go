package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Op int

const (
	OpEq Op = iota
	OpLike
	OpIsNull
	OpIn
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Query describes a filtered, ordered, offset-limited read of one table.
// It is a value: the builder methods return modified copies.
type Query struct {
	Filters []Filter
	SortKey string
	Desc    bool
	Limit   int
	Offset  int
}

func (q Query) with(f Filter) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, f)
	return q
}

func (q Query) Eq(column string, value any) Query {
	return q.with(Filter{Column: column, Op: OpEq, Value: value})
}

// Like adds a case-sensitive substring match.
func (q Query) Like(column, value string) Query {
	return q.with(Filter{Column: column, Op: OpLike, Value: value})
}

func (q Query) IsNull(column string) Query {
	return q.with(Filter{Column: column, Op: OpIsNull})
}

func (q Query) In(column string, values ...any) Query {
	return q.with(Filter{Column: column, Op: OpIn, Value: values})
}

func (q Query) OrderBy(column string, desc bool) Query {
	q.SortKey = column
	q.Desc = desc
	return q
}

func (q Query) Page(offset, limit int) Query {
	q.Offset = offset
	q.Limit = limit
	return q
}

// Unpaged drops ordering and window, keeping only the filters. Counting uses it.
func (q Query) Unpaged() Query {
	return Query{Filters: q.Filters}
}

// Scope applies the filters only.
func (q Query) Scope(tx *gorm.DB) *gorm.DB {
	for _, f := range q.Filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case OpEq:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		case OpLike:
			tx = tx.Where(clause.Like{Column: col, Value: fmt.Sprintf("%%%v%%", f.Value)})
		case OpIsNull:
			tx = tx.Where(clause.Eq{Column: col, Value: nil})
		case OpIn:
			tx = tx.Where(clause.IN{Column: col, Values: f.Value.([]any)})
		}
	}
	return tx
}

// Apply applies filters, ordering and window.
func (q Query) Apply(tx *gorm.DB) *gorm.DB {
	tx = q.Scope(tx)
	if q.SortKey != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortKey}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

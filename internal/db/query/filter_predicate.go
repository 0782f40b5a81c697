package query

import (
	"strings"

	"gorm.io/gorm"
)

// FilterPredicate builds a parameterized WHERE clause. Column names come from
// code, values are always bound.
type FilterPredicate struct {
	predicate strings.Builder
	args      []interface{}
}

func NewFilterPredicate() *FilterPredicate {
	return &FilterPredicate{}
}

func (fp *FilterPredicate) Open() *FilterPredicate {
	fp.predicate.WriteString("(")
	return fp
}

func (fp *FilterPredicate) Close() *FilterPredicate {
	fp.predicate.WriteString(")")
	return fp
}

func (fp *FilterPredicate) And() *FilterPredicate {
	if fp.predicate.Len() > 0 {
		fp.predicate.WriteString(" AND ")
	}
	return fp
}

func (fp *FilterPredicate) Or() *FilterPredicate {
	if fp.predicate.Len() > 0 {
		fp.predicate.WriteString(" OR ")
	}
	return fp
}

func (fp *FilterPredicate) Not() *FilterPredicate {
	fp.predicate.WriteString("NOT ")
	return fp
}

func (fp *FilterPredicate) cond(sql string, args ...interface{}) *FilterPredicate {
	fp.predicate.WriteString(sql)
	fp.args = append(fp.args, args...)
	return fp
}

func (fp *FilterPredicate) Equal(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" = ?", value)
}

func (fp *FilterPredicate) NotEqual(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" <> ?", value)
}

func (fp *FilterPredicate) GreaterThan(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" > ?", value)
}

func (fp *FilterPredicate) LessThan(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" < ?", value)
}

func (fp *FilterPredicate) Between(column string, v1, v2 interface{}) *FilterPredicate {
	return fp.cond(column+" BETWEEN ? AND ?", v1, v2)
}

func (fp *FilterPredicate) In(column string, values ...interface{}) *FilterPredicate {
	return fp.cond(column+" IN ?", values)
}

func (fp *FilterPredicate) Like(column, pattern string) *FilterPredicate {
	return fp.cond(column+" LIKE ?", "%"+pattern+"%")
}

func (fp *FilterPredicate) IsNull(column string) *FilterPredicate {
	return fp.cond(column + " IS NULL")
}

// EqualOrNull matches column = *value, or column IS NULL when value is nil.
func (fp *FilterPredicate) EqualOrNull(column string, value *string) *FilterPredicate {
	if value == nil {
		return fp.IsNull(column)
	}
	return fp.Equal(column, *value)
}

func (fp *FilterPredicate) Empty() bool {
	return fp == nil || fp.predicate.Len() == 0
}

func (fp *FilterPredicate) Build() (string, []interface{}) {
	return fp.predicate.String(), fp.args
}

// Apply adds the predicate to a gorm query. An empty predicate is a no-op.
func (fp *FilterPredicate) Apply(tx *gorm.DB) *gorm.DB {
	if fp.Empty() {
		return tx
	}
	sql, args := fp.Build()
	return tx.Where(sql, args...)
}

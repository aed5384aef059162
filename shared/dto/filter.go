package dto

import (
	"fmt"
	"maps"

	sq "github.com/Masterminds/squirrel"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plain"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter is one column condition. ArgName keys the bound value in Values when
// two conditions of a group share a column.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f Filter) key() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

func (f Filter) value() any {
	if f.Operator == FilterOperatorLike {
		return fmt.Sprintf("%%%v%%", f.Value)
	}

	return f.Value
}

// Sqlizer returns the squirrel expression for the operator, or nil for an unknown one.
// Like is case insensitive; eq and in both expand a slice value into IN.
func (f Filter) Sqlizer() sq.Sqlizer {
	column := f.column()

	switch f.Operator {
	case FilterOperatorEq, FilterOperatorIn:
		return sq.Eq{column: f.Value}
	case FilterOperatorNotEq:
		return sq.NotEq{column: f.Value}
	case FilterOperatorLike:
		return sq.ILike{column: f.value()}
	case FilterOperatorLessEq:
		return sq.LtOrEq{column: f.Value}
	case FilterOperatorGreaterEq:
		return sq.GtOrEq{column: f.Value}
	case FilterIsNull:
		return sq.Eq{column: nil}
	case FilterIsNotNull:
		return sq.NotEq{column: nil}
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return sq.Expr("(" + query + ")")
	default:
		return nil
	}
}

func (f Filter) ToSql() (string, []any, error) { //nolint:revive,stylecheck
	expr := f.Sqlizer()
	if expr == nil {
		return "", nil, nil
	}

	return expr.ToSql() //nolint:wrapcheck
}

// FilterGroup joins Filters and nested groups with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f FilterGroup) parts() []sq.Sqlizer {
	parts := make([]sq.Sqlizer, 0, len(f.Filters))

	for _, item := range f.Filters {
		switch cond := item.(type) {
		case Filter:
			if expr := cond.Sqlizer(); expr != nil {
				parts = append(parts, expr)
			}
		case FilterGroup:
			if !cond.IsEmpty() {
				parts = append(parts, cond)
			}
		}
	}

	return parts
}

// ToSql renders the group with ? placeholders. An empty group renders "".
func (f FilterGroup) ToSql() (string, []any, error) { //nolint:revive,stylecheck
	parts := f.parts()
	if len(parts) == 0 {
		return "", nil, nil
	}

	if f.Operator == FilterGroupOperatorOr {
		return sq.Or(parts).ToSql() //nolint:wrapcheck
	}

	return sq.And(parts).ToSql() //nolint:wrapcheck
}

func (f FilterGroup) IsEmpty() bool {
	return len(f.parts()) == 0
}

// Values returns every bound value keyed by ArgName, or Field when ArgName is unset.
func (f FilterGroup) Values() map[string]any {
	values := map[string]any{}

	for _, item := range f.Filters {
		switch cond := item.(type) {
		case Filter:
			if cond.Operator != FilterPlainQuery {
				values[cond.key()] = cond.value()
			}
		case FilterGroup:
			maps.Copy(values, cond.Values())
		}
	}

	return values
}

package words

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Column names a word_table column usable in a Query.
type Column string

const (
	ColumnID      Column = "id"
	ColumnWord    Column = "word"
	ColumnMeaning Column = "meaning"
)

func (c Column) valid() bool {
	switch c {
	case ColumnID, ColumnWord, ColumnMeaning:
		return true
	}
	return false
}

// Operator is a comparison usable in a Predicate.
type Operator string

const (
	OpEq   Operator = "="
	OpNe   Operator = "!="
	OpLt   Operator = "<"
	OpLte  Operator = "<="
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLike Operator = "LIKE"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpLike:
		return true
	}
	return false
}

// Predicate compares one column with a value. Values are always bound as
// parameters, never spliced into the SQL text.
type Predicate struct {
	Column Column   `json:"column"`
	Op     Operator `json:"op"`
	Value  any      `json:"value"`
}

// Query is an ad-hoc read over word_table for predicates the fixed scans do
// not cover. Predicates are ANDed. Results are ordered by OrderBy (word when
// empty) with id as the tiebreaker.
type Query struct {
	Where      []Predicate `json:"where,omitempty"`
	OrderBy    Column      `json:"order_by,omitempty"`
	Descending bool        `json:"descending,omitempty"`
	Limit      int         `json:"limit,omitempty"`
}

// compile validates q and returns the WHERE clause with its bound arguments.
func (q Query) compile() (string, []any, error) {
	if q.OrderBy != "" && !q.OrderBy.valid() {
		return "", nil, fmt.Errorf("%w: unknown order column %q", ErrInvalidQuery, q.OrderBy)
	}
	if q.Limit < 0 {
		return "", nil, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}

	parts := make([]string, 0, len(q.Where))
	args := make([]any, 0, len(q.Where))
	for i, p := range q.Where {
		if !p.Column.valid() {
			return "", nil, fmt.Errorf("%w: predicate %d: unknown column %q", ErrInvalidQuery, i, p.Column)
		}
		if !p.Op.valid() {
			return "", nil, fmt.Errorf("%w: predicate %d: unknown operator %q", ErrInvalidQuery, i, p.Op)
		}
		value, err := normalizeValue(p.Column, p.Op, p.Value)
		if err != nil {
			return "", nil, fmt.Errorf("%w: predicate %d: %v", ErrInvalidQuery, i, err)
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", p.Column, p.Op))
		args = append(args, value)
	}
	return strings.Join(parts, " AND "), args, nil
}

func (q Query) orderClause() string {
	col := q.OrderBy
	if col == "" {
		col = ColumnWord
	}
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	if col == ColumnID {
		return fmt.Sprintf("id %s", dir)
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

// normalizeValue checks that v fits the column. JSON numbers arrive as
// float64 or json.Number, so both are accepted for id when integral.
func normalizeValue(col Column, op Operator, v any) (any, error) {
	if col == ColumnID {
		if op == OpLike {
			return nil, fmt.Errorf("LIKE is not supported on id")
		}
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("id must be an integer, got %v", n)
			}
			return int64(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("id must be an integer, got %s", n)
			}
			return i, nil
		default:
			return nil, fmt.Errorf("id must be an integer, got %T", v)
		}
	}

	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %T", col, v)
	}
	return s, nil
}

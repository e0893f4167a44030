package devcms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultQueryLimit = 100

var errInvalidQuery = errors.New("invalid query")

type collection struct {
	fields   []string
	newSlice func() any
}

var collections = map[string]collection{
	"posts": {
		fields:   []string{"id", "title", "content", "slug", "status", "date_created", "date_updated"},
		newSlice: func() any { return &[]PostRecord{} },
	},
	"pages": {
		fields:   []string{"id", "title", "content", "slug", "status"},
		newSlice: func() any { return &[]PageRecord{} },
	},
}

func (c collection) hasField(name string) bool {
	return slices.Contains(c.fields, name)
}

// applyQuery translates the filter, sort and limit parameters into gorm
// clauses. Field names are checked against the collection before use.
func applyQuery(tx *gorm.DB, col collection, values url.Values) (*gorm.DB, error) {
	if raw := strings.TrimSpace(values.Get("filter")); raw != "" {
		var filter map[string]map[string]any
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return nil, fmt.Errorf("%w: filter is not valid JSON", errInvalidQuery)
		}

		fields := make([]string, 0, len(filter))
		for field := range filter {
			fields = append(fields, field)
		}
		slices.Sort(fields)

		for _, field := range fields {
			if !col.hasField(field) {
				return nil, fmt.Errorf("%w: unknown field %q", errInvalidQuery, field)
			}
			for op, operand := range filter[field] {
				expr, err := filterExpression(field, op, operand)
				if err != nil {
					return nil, err
				}
				tx = tx.Where(expr)
			}
		}
	}

	sorted := false
	for _, raw := range strings.Split(values.Get("sort"), ",") {
		field := strings.TrimSpace(raw)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if !col.hasField(field) {
			return nil, fmt.Errorf("%w: cannot sort by %q", errInvalidQuery, field)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc})
		sorted = true
	}
	if !sorted {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	limit := defaultQueryLimit
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < -1 {
			return nil, fmt.Errorf("%w: limit must be an integer >= -1", errInvalidQuery)
		}
		limit = parsed
	}
	if limit >= 0 {
		tx = tx.Limit(limit)
	}

	return tx, nil
}

func filterExpression(field, op string, operand any) (clause.Expression, error) {
	column := clause.Column{Name: field}
	switch op {
	case "_eq":
		return clause.Eq{Column: column, Value: operand}, nil
	case "_neq":
		return clause.Neq{Column: column, Value: operand}, nil
	case "_in", "_nin":
		list, ok := operand.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s on %q expects an array", errInvalidQuery, op, field)
		}
		in := clause.IN{Column: column, Values: list}
		if op == "_nin" {
			return clause.Not(in), nil
		}
		return in, nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", errInvalidQuery, op)
	}
}

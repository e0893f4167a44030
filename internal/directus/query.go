package directus

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Condition maps a filter operator such as "_eq" to its operand.
type Condition map[string]any

// Filter maps field names to conditions. Multiple fields are ANDed by the CMS.
type Filter map[string]Condition

// Eq returns a copy of f with an equality condition on field.
func (f Filter) Eq(field string, value any) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[field] = Condition{"_eq": value}
	return out
}

// Query describes the read parameters of an items request.
type Query struct {
	Filter Filter
	// Sort fields; a leading "-" sorts descending.
	Sort []string
	// Limit of zero leaves the server default in place.
	Limit int
}

// Values encodes q the way the Directus SDK does: filter as JSON, sort as a
// comma separated list.
func (q Query) Values() (url.Values, error) {
	values := url.Values{}
	if len(q.Filter) > 0 {
		encoded, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		values.Set("filter", string(encoded))
	}
	if len(q.Sort) > 0 {
		fields := make([]string, 0, len(q.Sort))
		for _, field := range q.Sort {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				fields = append(fields, trimmed)
			}
		}
		if len(fields) > 0 {
			values.Set("sort", strings.Join(fields, ","))
		}
	}
	if q.Limit != 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values, nil
}

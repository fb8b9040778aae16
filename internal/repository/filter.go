package repository

import (
	"sort"
	"strconv"
	"strings"
)

// Page size bounds applied by ListQuery.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// ListQuery carries pagination and the raw filter values of a list request.
// Each repository decides which filter keys it honours.
type ListQuery struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// limitOffset normalises page and limit into SQL LIMIT/OFFSET values.
func (q ListQuery) limitOffset() (int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Get returns a trimmed filter value.
func (q ListQuery) Get(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// Uint returns a filter value parsed as a positive integer.
func (q ListQuery) Uint(key string) (uint64, bool) {
	v := q.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// Filter composes a parameterised WHERE clause.  Column names always come
// from repository code, values always travel as arguments.
type Filter struct {
	conds []string
	args  []any
}

// Where appends a raw condition with its arguments.
func (f *Filter) Where(cond string, args ...any) *Filter {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

// Eq appends "col = ?".
func (f *Filter) Eq(col string, v any) *Filter {
	return f.Where(col+" = ?", v)
}

// Like appends a case-insensitive substring match on col.
func (f *Filter) Like(col, v string) *Filter {
	return f.Where("LOWER("+col+") LIKE ?", "%"+strings.ToLower(v)+"%")
}

// Allowed applies the equality filters present in q whose keys appear in
// cols (filter key → column).  Unknown keys are ignored.
func (f *Filter) Allowed(q ListQuery, cols map[string]string) *Filter {
	keys := make([]string, 0, len(cols))
	for key := range cols {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v := q.Get(key); v != "" {
			f.Eq(cols[key], v)
		}
	}
	return f
}

// Clause renders " WHERE a AND b" (or "" when empty) and its arguments.
func (f *Filter) Clause() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.conds, " AND "), f.args
}

// Page renders the WHERE clause followed by ORDER BY and LIMIT/OFFSET and
// returns the full argument list.
func (f *Filter) Page(q ListQuery, orderBy string) (string, []any) {
	where, args := f.Clause()
	limit, offset := q.limitOffset()
	out := append(append([]any{}, args...), limit, offset)
	return where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?", out
}

package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type FilterField int

const (
	FilterEdited FilterField = iota
	FilterState
	FilterChapter
	FilterIntervention
	FilterAge
)

type FilterOp int

const (
	OpEquals FilterOp = iota
	OpGreaterThan
	OpLessThan
)

type Filter struct {
	Field FilterField
	Op    FilterOp
	Value string
}

// FilterSet is a parsed journal query: structured filters plus free text
// matched against the submitted value and the error text.
type FilterSet struct {
	FreeText string
	Filters  []Filter
}

// Parse parses a journal query.
// Examples:
//
//	"Ahora" → FreeText: "Ahora"
//	"field:dialogue state:failed" → Filters: [{FilterEdited, OpEquals, "dialogue"}, ...]
//	"chapter:7 age:<2h" → Filters: [...]
//	`"Database error" intervention:702` → FreeText: "Database error", Filters: [...]
func Parse(query string) *FilterSet {
	fs := &FilterSet{}
	var freeWords []string

	for _, tok := range tokenize(query) {
		if f, ok := parseFilter(tok); ok {
			fs.Filters = append(fs.Filters, f)
		} else {
			freeWords = append(freeWords, strings.Trim(tok, `"`))
		}
	}

	fs.FreeText = strings.Join(freeWords, " ")
	return fs
}

// tokenize splits a query string respecting quoted phrases.
func tokenize(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false

	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// parseFilter attempts to parse a token as field:value or field:>value.
func parseFilter(token string) (Filter, bool) {
	idx := strings.Index(token, ":")
	if idx < 1 || idx == len(token)-1 {
		return Filter{}, false
	}

	name := strings.ToLower(token[:idx])
	value := token[idx+1:]

	var f Filter
	switch name {
	case "field":
		f.Field = FilterEdited
	case "state":
		f.Field = FilterState
	case "chapter":
		f.Field = FilterChapter
	case "intervention", "iv":
		f.Field = FilterIntervention
	case "age":
		f.Field = FilterAge
	default:
		return Filter{}, false
	}

	switch {
	case strings.HasPrefix(value, ">"):
		f.Op = OpGreaterThan
		f.Value = value[1:]
	case strings.HasPrefix(value, "<"):
		f.Op = OpLessThan
		f.Value = value[1:]
	default:
		f.Op = OpEquals
		f.Value = value
	}
	return f, true
}

// ToSQL returns the WHERE clause (without "WHERE") over the mutations
// table and its parameters. Filters with unparsable values are dropped.
func (fs *FilterSet) ToSQL() (string, []any) {
	var conditions []string
	var params []any

	if fs.FreeText != "" {
		like := "%" + escapeLike(fs.FreeText) + "%"
		conditions = append(conditions, `(value LIKE ? ESCAPE '\' OR error LIKE ? ESCAPE '\')`)
		params = append(params, like, like)
	}

	for _, f := range fs.Filters {
		cond, p := filterToSQL(f)
		if cond != "" {
			conditions = append(conditions, cond)
			params = append(params, p...)
		}
	}

	if len(conditions) == 0 {
		return "1=1", nil
	}
	return strings.Join(conditions, " AND "), params
}

// IsEmpty returns true if there are no filters or free text.
func (fs *FilterSet) IsEmpty() bool {
	return fs.FreeText == "" && len(fs.Filters) == 0
}

func filterToSQL(f Filter) (string, []any) {
	switch f.Field {
	case FilterEdited:
		return "field = ?", []any{strings.ToLower(f.Value)}

	case FilterState:
		return "state = ?", []any{strings.ToLower(f.Value)}

	case FilterChapter, FilterIntervention:
		n, err := strconv.ParseInt(f.Value, 10, 64)
		if err != nil {
			return "", nil
		}
		col := "chapter_id"
		if f.Field == FilterIntervention {
			col = "intervention_id"
		}
		switch f.Op {
		case OpGreaterThan:
			return col + " > ?", []any{n}
		case OpLessThan:
			return col + " < ?", []any{n}
		default:
			return col + " = ?", []any{n}
		}

	case FilterAge:
		dur, err := parseAge(f.Value)
		if err != nil {
			return "", nil
		}
		cutoff := time.Now().Add(-dur).Format(time.RFC3339)
		if f.Op == OpGreaterThan {
			// age:>1h means submitted more than an hour ago
			return "created_at < ?", []any{cutoff}
		}
		return "created_at > ?", []any{cutoff}
	}

	return "", nil
}

// parseAge parses a duration like "1h", "30m", "7d", "2w".
func parseAge(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid age: %s", s)
	}

	unit := s[len(s)-1]
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, err
	}

	switch unit {
	case 'm':
		return time.Duration(num) * time.Minute, nil
	case 'h':
		return time.Duration(num) * time.Hour, nil
	case 'd':
		return time.Duration(num) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown unit: %c", unit)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Query returns journal entries matching fs, newest first.
func (s *Store) Query(fs *FilterSet, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	where, params := fs.ToSQL()
	params = append(params, limit)
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM mutations WHERE "+where+" ORDER BY id DESC LIMIT ?",
		params...,
	)
}

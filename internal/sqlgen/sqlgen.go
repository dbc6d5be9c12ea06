// Package sqlgen turns compact "ACTION|Table|key=value,..." queries into SQL
// statements for the analysis frontend.
package sqlgen

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed query. The message is safe to return to
// the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type pair struct {
	key   string
	value string
}

// Generate builds an INSERT, UPDATE or DELETE statement from a three-part
// query. Key order is preserved. UPDATE and DELETE require an "id" key;
// numeric values are emitted unquoted, everything else single-quoted.
func Generate(query string) (string, error) {
	parts := strings.Split(strings.TrimSpace(query), "|")
	if len(parts) != 3 {
		return "", invalidf("query must have 3 parts: ACTION|Table|key=value,...")
	}

	action := strings.ToUpper(strings.TrimSpace(parts[0]))
	table := strings.TrimSpace(parts[1])
	pairs, err := parsePairs(parts[2])
	if err != nil {
		return "", err
	}

	switch action {
	case "INSERT":
		return generateInsert(table, pairs), nil
	case "UPDATE":
		return generateUpdate(table, pairs)
	case "DELETE":
		return generateDelete(table, pairs)
	}
	return "", invalidf("unsupported action: %s", action)
}

func parsePairs(kvString string) ([]pair, error) {
	var pairs []pair
	for _, raw := range strings.Split(kvString, ",") {
		key, value, found := strings.Cut(raw, "=")
		if !found {
			return nil, invalidf("invalid pair: %s", raw)
		}
		pairs = append(pairs, pair{key: strings.TrimSpace(key), value: strings.TrimSpace(value)})
	}
	return pairs, nil
}

func generateInsert(table string, pairs []pair) string {
	columns := make([]string, len(pairs))
	values := make([]string, len(pairs))
	for i, p := range pairs {
		columns[i] = p.key
		values[i] = formatValue(p.value)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		table, strings.Join(columns, ", "), strings.Join(values, ", "))
}

func generateUpdate(table string, pairs []pair) (string, error) {
	id, rest, ok := takeID(pairs)
	if !ok {
		return "", invalidf("UPDATE requires 'id' as primary key")
	}
	if len(rest) == 0 {
		return "", invalidf("UPDATE requires at least one column to set")
	}
	sets := make([]string, len(rest))
	for i, p := range rest {
		sets[i] = p.key + "=" + formatValue(p.value)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id=%s;", table, strings.Join(sets, ", "), id), nil
}

func generateDelete(table string, pairs []pair) (string, error) {
	id, _, ok := takeID(pairs)
	if !ok {
		return "", invalidf("DELETE requires 'id' as primary key")
	}
	return fmt.Sprintf("DELETE FROM %s WHERE id=%s;", table, id), nil
}

func takeID(pairs []pair) (id string, rest []pair, found bool) {
	for _, p := range pairs {
		if p.key == "id" {
			id = p.value
			found = true
			continue
		}
		rest = append(rest, p)
	}
	return id, rest, found
}

// formatValue leaves non-negative numerics bare and single-quotes everything
// else, doubling embedded quotes.
func formatValue(value string) string {
	if isNumeric(value) {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	stripped := strings.Replace(value, ".", "", 1)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

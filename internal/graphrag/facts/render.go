package facts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NoDataMessage is the rendering of a bundle without any record.
const NoDataMessage = "No matching records were found in the investigation database."

// RenderText renders the bundle as plain text without any free-form wording:
// every value printed comes from a record. It serves both as the generator's
// fact context and as the fallback answer.
func RenderText(b *Bundle) string {
	if b == nil || b.NoData {
		return NoDataMessage + renderUnavailable(b)
	}

	var sb strings.Builder
	for i, rs := range b.ResultSets {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d %s)\n", rs.Name, len(rs.Records), plural(len(rs.Records), "record", "records"))
		if rs.IsEmpty() {
			sb.WriteString("  none found\n")
			continue
		}
		for _, r := range rs.Records {
			sb.WriteString("  - ")
			sb.WriteString(FormatRecord(r))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(renderUnavailable(b))
	return strings.TrimRight(sb.String(), "\n")
}

func renderUnavailable(b *Bundle) string {
	if b == nil {
		return ""
	}
	var names []string
	for _, q := range b.QueryLog {
		if !q.Status.Succeeded() {
			names = append(names, q.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "\nNot available: " + strings.Join(names, "; ") + "\n"
}

// FormatRecord renders a record as "key: value; key: value" with keys sorted
// and null values omitted.
func FormatRecord(r Record) string {
	keys := make([]string, 0, len(r))
	for k, v := range r {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + FormatValue(r[k])
	}
	return strings.Join(parts, "; ")
}

// FormatValue renders a single value the way it appears in answers.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if e != nil {
				parts = append(parts, FormatValue(e))
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return "{" + FormatRecord(Record(x)) + "}"
	default:
		return FormatValue(normalize(x))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

// renderResponse prints one turn. Structured formats print the whole
// response; text prints the answer and, on request, the query log.
func renderResponse(w io.Writer, format internal.OutputFormat, resp *engine.Response, showQueries bool) error {
	if format != internal.FormatText {
		return internal.NewFormatter(format, w).PrintData(resp)
	}

	tf := internal.NewTextFormatter(w)
	theme := tf.Theme()

	if _, err := fmt.Fprintln(w, theme.Answer.Render(resp.Answer)); err != nil {
		return err
	}
	if len(resp.Violations) > 0 {
		fmt.Fprintln(w, theme.Muted.Render(fmt.Sprintf("(%d unsupported claims removed; showing database records)", len(resp.Violations))))
	}
	if !showQueries || len(resp.QueryLog) == 0 {
		return nil
	}

	fmt.Fprintln(w, theme.Title.Render("Queries"))
	return tf.PrintTable(queryLogTable(resp.QueryLog))
}

func queryLogTable(log []facts.LoggedQuery) ([]string, [][]string) {
	headers := []string{"id", "name", "status", "rows", "ms"}
	rows := make([][]string, 0, len(log))
	for _, q := range log {
		status := string(q.Status)
		if q.Error != "" {
			status += " (" + q.Error + ")"
		}
		rows = append(rows, []string{
			q.OperationID,
			q.Name,
			status,
			strconv.Itoa(q.RowCount),
			strconv.FormatInt(q.DurationMS, 10),
		})
	}
	return headers, rows
}

// renderBundle prints every result set as a table.
func renderBundle(w io.Writer, format internal.OutputFormat, b *facts.Bundle) error {
	if format != internal.FormatText {
		return internal.NewFormatter(format, w).PrintData(b)
	}

	tf := internal.NewTextFormatter(w)
	theme := tf.Theme()
	for i, rs := range b.ResultSets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("%s (%d)", rs.Name, len(rs.Records))))
		if rs.IsEmpty() {
			fmt.Fprintln(w, theme.Muted.Render("none found"))
			continue
		}
		if err := tf.PrintTable(resultTable(theme, rs.Records)); err != nil {
			return err
		}
	}
	for _, q := range b.QueryLog {
		if !q.Status.Succeeded() {
			if err := tf.PrintError(fmt.Sprintf("%s: %s", q.Name, q.Status)); err != nil {
				return err
			}
		}
	}
	return nil
}

// resultTable builds columns from the union of record keys, sorted.
func resultTable(theme *internal.Theme, records []facts.Record) ([]string, [][]string) {
	seen := make(map[string]bool)
	var headers []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = facts.FormatValue(r[h])
			if h == "risk_level" {
				row[i] = theme.RiskBand(row[i])
			}
		}
		rows = append(rows, row)
	}
	for i := range headers {
		headers[i] = strings.ReplaceAll(headers[i], "_", " ")
	}
	return headers, rows
}

package facts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/executor"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// ResultSet is the deduplicated output of one successful operation.
type ResultSet struct {
	Name        string          `json:"name"`
	OperationID string          `json:"operation_id"`
	Kind        query.Kind      `json:"kind"`
	Status      executor.Status `json:"status"`
	Records     []Record        `json:"records"`
}

// IsEmpty reports whether the operation succeeded but matched nothing.
func (rs ResultSet) IsEmpty() bool {
	return len(rs.Records) == 0
}

// Statement is an executed statement with lossless parameters.
type Statement struct {
	Cypher string `json:"cypher"`
	Params Record `json:"params,omitempty"`
}

// LoggedQuery records one attempted operation, successful or not.
type LoggedQuery struct {
	OperationID string          `json:"operation_id"`
	Name        string          `json:"name"`
	Kind        query.Kind      `json:"kind"`
	Description string          `json:"description"`
	Statements  []Statement     `json:"statements"`
	Status      executor.Status `json:"status"`
	RowCount    int             `json:"row_count"`
	DurationMS  int64           `json:"duration_ms"`
	// Error is a sanitized failure class; raw store messages never appear here.
	Error string `json:"error,omitempty"`
}

// Bundle is the complete factual context of one answer.
type Bundle struct {
	TurnID     string        `json:"turn_id"`
	Question   string        `json:"question"`
	ResultSets []ResultSet   `json:"result_sets"`
	QueryLog   []LoggedQuery `json:"query_log"`
	// NoData is set when no result set holds any record.
	NoData bool `json:"no_data"`
}

// Assemble merges outcomes into a bundle. Result sets keep plan order and
// operation names; failed and timed-out operations appear only in the query
// log. Identical records within a result set are collapsed.
func Assemble(turnID, question string, outcomes []executor.Outcome) *Bundle {
	b := &Bundle{
		TurnID:     turnID,
		Question:   question,
		ResultSets: []ResultSet{},
		QueryLog:   make([]LoggedQuery, 0, len(outcomes)),
	}

	rows := 0
	for _, o := range outcomes {
		entry := LoggedQuery{
			OperationID: o.Operation.ID,
			Name:        o.Operation.Name,
			Kind:        o.Operation.Kind,
			Description: o.Operation.Describe(),
			Statements:  statements(o.Statements),
			Status:      o.Status,
			DurationMS:  o.Duration.Milliseconds(),
			Error:       sanitize(o),
		}

		if o.Status.Succeeded() {
			records := dedupe(o.Records)
			entry.RowCount = len(records)
			rows += len(records)
			b.ResultSets = append(b.ResultSets, ResultSet{
				Name:        o.Operation.Name,
				OperationID: o.Operation.ID,
				Kind:        o.Operation.Kind,
				Status:      o.Status,
				Records:     records,
			})
		}
		b.QueryLog = append(b.QueryLog, entry)
	}

	b.NoData = rows == 0
	return b
}

// RecordCount returns the number of records across all result sets.
func (b *Bundle) RecordCount() int {
	n := 0
	for _, rs := range b.ResultSets {
		n += len(rs.Records)
	}
	return n
}

// ResultSet returns the result set produced by the given operation.
func (b *Bundle) ResultSet(operationID string) (ResultSet, bool) {
	for _, rs := range b.ResultSets {
		if rs.OperationID == operationID {
			return rs, true
		}
	}
	return ResultSet{}, false
}

// MarshalTransparency serializes the bundle in the transparency format.
func MarshalTransparency(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, errors.New("nil bundle")
	}
	return json.MarshalIndent(b, "", "  ")
}

// ParseTransparency parses the transparency format.
func ParseTransparency(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse transparency bundle: %w", err)
	}
	if b.ResultSets == nil {
		b.ResultSets = []ResultSet{}
	}
	if b.QueryLog == nil {
		b.QueryLog = []LoggedQuery{}
	}
	for i := range b.ResultSets {
		if b.ResultSets[i].Records == nil {
			b.ResultSets[i].Records = []Record{}
		}
	}
	return &b, nil
}

func dedupe(in []map[string]any) []Record {
	out := make([]Record, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		r := NormalizeRecord(raw)
		key := r.canonical()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func statements(in []query.Statement) []Statement {
	out := make([]Statement, len(in))
	for i, s := range in {
		out[i] = Statement{Cypher: s.Cypher}
		if len(s.Params) > 0 {
			out[i].Params = NormalizeRecord(s.Params)
		}
	}
	return out
}

func sanitize(o executor.Outcome) string {
	if o.Err == nil {
		return ""
	}
	msg := "operation failed"
	if o.Status == executor.StatusTimeout {
		msg = "operation timed out"
	}
	var cgErr *types.CaseGraphError
	if errors.As(o.Err, &cgErr) {
		return fmt.Sprintf("%s (%s)", msg, cgErr.Code)
	}
	return msg
}

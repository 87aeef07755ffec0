package graphrag

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

// Attribute keys recorded on engine spans, following the "casegraph.*" convention.
const (
	AttrSessionID      = "casegraph.session_id"
	AttrTurnID         = "casegraph.turn_id"
	AttrIntent         = "casegraph.intent"
	AttrEntityCount    = "casegraph.entity_count"
	AttrOperationCount = "casegraph.operation_count"
	AttrFailedCount    = "casegraph.failed_operations"
	AttrRecordCount    = "casegraph.record_count"
	AttrAnswerSource   = "casegraph.answer_source"
	AttrViolations     = "casegraph.violations"
	AttrTurnStatus     = "casegraph.turn_status"
)

// Span names for the stages of a turn.
const (
	SpanTurn      = "casegraph.turn"
	SpanRecognize = "casegraph.recognize"
	SpanPlan      = "casegraph.plan"
	SpanExecute   = "casegraph.execute"
	SpanGenerate  = "casegraph.generate"
)

// BundleAttributes summarizes a fact bundle for a span.
func BundleAttributes(b *facts.Bundle) []attribute.KeyValue {
	if b == nil {
		return nil
	}
	failed := 0
	for _, q := range b.QueryLog {
		if !q.Status.Succeeded() {
			failed++
		}
	}
	return []attribute.KeyValue{
		attribute.String(AttrTurnID, b.TurnID),
		attribute.Int(AttrOperationCount, len(b.QueryLog)),
		attribute.Int(AttrFailedCount, failed),
		attribute.Int(AttrRecordCount, b.RecordCount()),
	}
}

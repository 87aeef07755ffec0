package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/analytics"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/conversation"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/entity"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/executor"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/generator"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/grounding"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/intent"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/planner"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Status summarizes how a turn ended.
type Status string

const (
	StatusOK     Status = "ok"
	StatusNoData Status = "no_data"
	StatusReset  Status = "reset"
)

// Response is the answer to one question together with the evidence behind it.
type Response struct {
	TurnID       string              `json:"turn_id"`
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	AnswerSource grounding.Source    `json:"answer_source,omitempty"`
	Status       Status              `json:"status"`
	Intent       string              `json:"intent,omitempty"`
	Entities     entity.Set          `json:"entities"`
	Violations   []grounding.Claim   `json:"violations,omitempty"`
	QueryLog     []facts.LoggedQuery `json:"query_log"`
	Bundle       *facts.Bundle       `json:"bundle,omitempty"`
}

// Dependencies are the collaborators of an Engine. Only Client is required.
type Dependencies struct {
	Client graph.GraphClient
	// Generator writes answers. Nil answers every turn with the rendered bundle.
	Generator generator.Generator
	// Lexicon overrides the lexicon named in the configuration.
	Lexicon *entity.Lexicon
	// Index overrides the name index built from Client.
	Index   *entity.Refresher
	Tracer  trace.Tracer
	Metrics Recorder
	Logger  *slog.Logger
}

// Engine answers investigator questions from the graph store. It holds no
// per-user state; every turn reads and writes the Session it is given.
type Engine struct {
	cfg        graphrag.Config
	client     graph.GraphClient
	index      *entity.Refresher
	recognizer *entity.Recognizer
	classifier *intent.Classifier
	planner    *planner.Planner
	executor   *executor.Executor
	policy     *grounding.Policy
	tracer     trace.Tracer
	metrics    Recorder
	logger     *slog.Logger
}

// New wires an engine from cfg. Defaults are applied to a copy of cfg.
func New(cfg graphrag.Config, deps Dependencies) (*Engine, error) {
	if deps.Client == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a graph client")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid engine config", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer("casegraph")
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NoopRecorder{}
	}

	lexicon := deps.Lexicon
	if lexicon == nil && cfg.Entity.LexiconFile != "" {
		loaded, err := entity.LoadLexicon(cfg.Entity.LexiconFile)
		if err != nil {
			return nil, err
		}
		lexicon = loaded
	}
	if lexicon == nil {
		lexicon = entity.DefaultLexicon()
	}

	index := deps.Index
	if index == nil {
		index = entity.NewRefresher(entity.NewGraphLoader(deps.Client), cfg.Entity.RefreshInterval, logger)
	}

	runner := analytics.NewRunner(deps.Client, cfg.Analytics, logger)
	return &Engine{
		cfg:        cfg,
		client:     deps.Client,
		index:      index,
		recognizer: entity.NewRecognizer(lexicon),
		classifier: intent.NewClassifier(cfg.Engine.DefaultDepth, cfg.Engine.MaxDepth),
		planner:    planner.New(cfg.Engine.PlannerConfig()),
		executor:   executor.New(deps.Client, runner, cfg.Engine.ExecutorConfig(), logger),
		policy:     grounding.NewPolicy(deps.Generator, grounding.NewVerifier(lexicon), cfg.Grounding, logger),
		tracer:     tracer,
		metrics:    metrics,
		logger:     logger.With("component", "engine"),
	}, nil
}

// Start loads the name index and keeps it fresh until ctx ends. A failed
// initial load is returned but does not stop the refresh loop; questions are
// still answered with the empty index.
func (e *Engine) Start(ctx context.Context) error {
	_, err := e.RefreshIndex(ctx)
	go e.index.Run(ctx)
	return err
}

// RefreshIndex rebuilds the name index now.
func (e *Engine) RefreshIndex(ctx context.Context) (*entity.NameIndex, error) {
	idx, err := e.index.Refresh(ctx)
	if err != nil {
		return idx, types.WrapRetryableError(types.INDEX_REFRESH_FAIL, "refresh name index", err)
	}
	return idx, nil
}

// Health reports the graph store's health.
func (e *Engine) Health(ctx context.Context) types.HealthStatus {
	return e.client.Health(ctx)
}

// Ask answers question within session. The returned error is non-nil when no
// answer could be produced: the store was unreachable for every operation,
// the turn was superseded, or ctx ended. In every case the session is left
// as it was before the question.
func (e *Engine) Ask(ctx context.Context, session *conversation.Session, question string) (*Response, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, graphrag.SpanTurn,
		trace.WithAttributes(attribute.String(graphrag.AttrSessionID, session.ID)))
	defer span.End()

	question = strings.TrimSpace(question)
	turnID := uuid.NewString()
	span.SetAttributes(attribute.String(graphrag.AttrTurnID, turnID))

	if conversation.IsResetSignal(question) {
		session.Reset()
		e.logger.InfoContext(ctx, "session reset", "session_id", session.ID)
		e.metrics.RecordTurn(ctx, string(StatusReset), "", time.Since(start))
		return &Response{
			TurnID:   turnID,
			Question: question,
			Answer:   graphrag.MessageReset,
			Status:   StatusReset,
			QueryLog: []facts.LoggedQuery{},
		}, nil
	}
	if question == "" {
		return nil, types.NewError(types.INVALID_OPERATION, "question is empty")
	}

	ticket := session.Begin()
	idx := e.index.Index()

	recognized, resolution, in := e.understand(ctx, session, question, idx)
	span.SetAttributes(
		attribute.String(graphrag.AttrIntent, in.Name()),
		attribute.Int(graphrag.AttrEntityCount, resolution.Effective.Len()),
	)

	ops, err := e.plan(ctx, in)
	if err != nil {
		return nil, e.fail(ctx, span, start, err)
	}

	outcomes, err := e.execute(ctx, ops)
	if err != nil {
		if graphrag.IsStoreUnavailable(err) {
			e.logger.ErrorContext(ctx, "graph store unavailable", "turn_id", turnID, "operations", len(ops))
		}
		return nil, e.fail(ctx, span, start, err)
	}
	if !session.IsCurrent(ticket) {
		e.logger.DebugContext(ctx, "discarding superseded turn", "turn_id", turnID)
		return nil, e.fail(ctx, span, start, conversation.ErrStaleTurn)
	}

	bundle := facts.Assemble(turnID, question, outcomes)
	span.SetAttributes(graphrag.BundleAttributes(bundle)...)

	answer := e.answer(ctx, session, question, bundle, idx)
	span.SetAttributes(
		attribute.String(graphrag.AttrAnswerSource, string(answer.Source)),
		attribute.Int(graphrag.AttrViolations, len(answer.Violations)),
	)

	turn := conversation.Turn{
		Question:   question,
		Recognized: recognized,
		Resolved:   resolution.Effective,
		Bundle:     bundle,
		Answer:     answer.Text,
	}
	if err := session.Commit(ticket, turn); err != nil {
		e.logger.DebugContext(ctx, "discarding superseded turn", "turn_id", turnID)
		return nil, e.fail(ctx, span, start, err)
	}

	status := StatusOK
	if bundle.NoData {
		status = StatusNoData
	}
	span.SetAttributes(attribute.String(graphrag.AttrTurnStatus, string(status)))
	e.metrics.RecordTurn(ctx, string(status), string(answer.Source), time.Since(start))

	return &Response{
		TurnID:       turnID,
		Question:     question,
		Answer:       answer.Text,
		AnswerSource: answer.Source,
		Status:       status,
		Intent:       in.Name(),
		Entities:     resolution.Effective,
		Violations:   answer.Violations,
		QueryLog:     bundle.QueryLog,
		Bundle:       bundle,
	}, nil
}

// Run executes operations outside of a conversation, as the analytics
// commands do, and returns their bundle.
func (e *Engine) Run(ctx context.Context, question string, ops ...query.Operation) (*facts.Bundle, error) {
	for i := range ops {
		if ops[i].ID == "" {
			ops[i] = ops[i].WithID(fmt.Sprintf("op%d", i+1))
		}
	}
	outcomes, err := e.execute(ctx, ops)
	if err != nil {
		return nil, err
	}
	return facts.Assemble(uuid.NewString(), question, outcomes), nil
}

func (e *Engine) understand(ctx context.Context, session *conversation.Session, question string, idx *entity.NameIndex) (entity.Set, conversation.Resolution, intent.Intent) {
	_, span := e.tracer.Start(ctx, graphrag.SpanRecognize)
	defer span.End()

	recognized := e.recognizer.Recognize(question, idx)
	resolution := conversation.Resolve(question, recognized, session.Context())
	in := e.classifier.Classify(question, resolution.Effective)

	e.logger.DebugContext(ctx, "question understood",
		"recognized", recognized.Names(),
		"effective", resolution.Effective.Names(),
		"substituted", resolution.Substituted,
		"intent", in.Name(),
	)
	return recognized, resolution, in
}

func (e *Engine) plan(ctx context.Context, in intent.Intent) ([]query.Operation, error) {
	_, span := e.tracer.Start(ctx, graphrag.SpanPlan)
	defer span.End()

	ops, err := e.planner.Plan(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(graphrag.AttrOperationCount, len(ops)))
	return ops, nil
}

func (e *Engine) execute(ctx context.Context, ops []query.Operation) ([]executor.Outcome, error) {
	ctx, span := e.tracer.Start(ctx, graphrag.SpanExecute,
		trace.WithAttributes(attribute.Int(graphrag.AttrOperationCount, len(ops))))
	defer span.End()

	outcomes, err := e.executor.Execute(ctx, ops)
	failed := 0
	for _, o := range outcomes {
		if !o.Status.Succeeded() {
			failed++
		}
		e.metrics.RecordOperation(ctx, string(o.Operation.Kind), string(o.Status), o.Duration)
	}
	span.SetAttributes(attribute.Int(graphrag.AttrFailedCount, failed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return outcomes, err
}

func (e *Engine) answer(ctx context.Context, session *conversation.Session, question string, bundle *facts.Bundle, idx *entity.NameIndex) grounding.Answer {
	ctx, span := e.tracer.Start(ctx, graphrag.SpanGenerate)
	defer span.End()

	var history []generator.TurnSummary
	for _, t := range session.LastTurns(e.cfg.Generator.HistoryTurns) {
		history = append(history, generator.TurnSummary{Question: t.Question, Answer: t.Answer})
	}

	answer := e.policy.Answer(ctx, generator.Request{
		Question: question,
		Bundle:   bundle,
		History:  history,
	}, idx.Aliases())

	if len(answer.Violations) > 0 {
		claims := make([]string, len(answer.Violations))
		for i, c := range answer.Violations {
			claims[i] = c.Text
		}
		e.logger.WarnContext(ctx, "ungrounded claims in generated answer", "turn_id", bundle.TurnID, "claims", claims)
		e.metrics.RecordViolations(ctx, len(answer.Violations))
	}
	if answer.Source == grounding.SourceFallback {
		e.logger.InfoContext(ctx, "answered with rendered facts", "turn_id", bundle.TurnID, "attempts", answer.Attempts)
	}
	return answer
}

func (e *Engine) fail(ctx context.Context, span trace.Span, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.metrics.RecordTurn(ctx, "error", "", time.Since(start))
	return err
}

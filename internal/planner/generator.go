package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"teamflow/pkg/metrics"
)

// CompletionRequest is the outbound payload for the external text-generation
// service. The service's only contract is "returns text, eventually, or fails".
type CompletionRequest struct {
	Context        string         `json:"context"`
	ResponseFormat map[string]any `json:"response_format"`
	Input          string         `json:"input"`
	FunctionName   string         `json:"function_name"`
}

// CompletionClient is the external completion service boundary.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Generator runs the roadmap generation pipeline: assemble context, make one
// completion call, sanitize, validate structure, validate assignments,
// serialize. Strictly linear; any failure discards the whole response.
type Generator struct {
	client CompletionClient
	logger *zap.Logger
}

func NewGenerator(client CompletionClient, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate returns the normalized plan as a pretty-printed JSON string.
// At most one external call is made per invocation; retry policy belongs to
// the caller.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	instr, payload, err := buildPrompt(in)
	if err != nil {
		metrics.IncrementRoadmapGeneration(resultLabel(err))
		return "", err
	}

	g.logger.Debug("Requesting roadmap completion",
		zap.Int("team_size", len(in.Members)),
		zap.Int("prompt_bytes", len(payload)),
	)

	raw, err := g.client.Complete(ctx, CompletionRequest{
		Context:        instr,
		ResponseFormat: ResponseSchema(),
		Input:          payload,
		FunctionName:   "generate_roadmap",
	})
	if err != nil {
		metrics.IncrementRoadmapGeneration("service_error")
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	obj, err := extractJSON(raw)
	if err != nil {
		g.logFailure(err, raw)
		metrics.IncrementRoadmapGeneration(resultLabel(err))
		return "", err
	}

	plan, err := validatePlan(obj)
	if err != nil {
		g.logFailure(err, raw)
		metrics.IncrementRoadmapGeneration(resultLabel(err))
		return "", err
	}

	if err := checkAssignments(plan, in.Members); err != nil {
		g.logFailure(err, raw)
		metrics.IncrementRoadmapGeneration(resultLabel(err))
		return "", err
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize plan: %w", err)
	}

	g.logger.Info("Roadmap generated",
		zap.Int("stages", len(plan.Stages)),
		zap.Int("team_size", len(in.Members)),
	)
	metrics.IncrementRoadmapGeneration("success")

	return string(out), nil
}

// ParsePlan re-parses a serialized plan. Callers that persist the returned
// string use this to get the structured form back.
func ParsePlan(serialized string) (*GeneratedPlan, error) {
	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(serialized), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	return &plan, nil
}

func (g *Generator) logFailure(err error, raw string) {
	var pe *Error
	fields := []zap.Field{zap.Error(err)}
	if e, ok := err.(*Error); ok {
		pe = e
		fields = append(fields,
			zap.String("kind", pe.Kind.String()),
			zap.Int("stage", pe.Stage),
			zap.Int("task", pe.Task),
			zap.String("field", pe.Field),
			zap.String("detail", pe.Detail),
		)
	}
	fields = append(fields, zap.Int("response_bytes", len(raw)))
	g.logger.Warn("Roadmap generation rejected", fields...)
}

func resultLabel(err error) string {
	switch KindOf(err) {
	case KindInput:
		return "input_error"
	case KindFormat:
		return "format_error"
	case KindSchema:
		return "schema_error"
	case KindAssignment:
		return "assignment_error"
	default:
		return "service_error"
	}
}

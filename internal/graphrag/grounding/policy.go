package grounding

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/generator"
)

// Source records how the returned answer was produced.
type Source string

const (
	SourceGenerated   Source = "generated"
	SourceRegenerated Source = "regenerated"
	SourceFallback    Source = "fallback"
)

// Config controls answer verification.
type Config struct {
	// Enabled turns verification on. When off, generated text is returned as is.
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	// MaxRegenerations is the number of strict retries before falling back.
	MaxRegenerations int `yaml:"max_regenerations" json:"max_regenerations" mapstructure:"max_regenerations" validate:"gte=0,lte=3"`
}

// DefaultConfig verifies every answer and retries once.
func DefaultConfig() Config {
	return Config{Enabled: true, MaxRegenerations: 1}
}

// Answer is the final text of a turn.
type Answer struct {
	Text       string
	Source     Source
	Violations []Claim
	Attempts   int
}

// Policy generates an answer, verifies it and decides what is returned.
type Policy struct {
	generator generator.Generator
	verifier  *Verifier
	cfg       Config
	logger    *slog.Logger
}

// NewPolicy creates a policy. A nil generator always yields the fallback rendering.
func NewPolicy(gen generator.Generator, verifier *Verifier, cfg Config, logger *slog.Logger) *Policy {
	if verifier == nil {
		verifier = NewVerifier(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{
		generator: gen,
		verifier:  verifier,
		cfg:       cfg,
		logger:    logger.With("component", "grounding"),
	}
}

// Answer produces the text for req. It never returns an ungrounded answer
// while verification is enabled: after the allowed regenerations the bundle
// itself is rendered.
func (p *Policy) Answer(ctx context.Context, req generator.Request, aliases map[string]string) Answer {
	if p.generator == nil || req.Bundle == nil || req.Bundle.NoData {
		return p.fallback(req.Bundle, nil, 0)
	}

	var violations []Claim
	attempts := 0
	for attempts <= p.cfg.MaxRegenerations {
		attempts++
		text, err := p.generator.Generate(ctx, req)
		if err != nil {
			p.logger.WarnContext(ctx, "generation failed, using fallback", "attempt", attempts, "error", err)
			return p.fallback(req.Bundle, violations, attempts)
		}
		if strings.TrimSpace(text) == "" {
			p.logger.WarnContext(ctx, "generator returned empty answer", "attempt", attempts)
			return p.fallback(req.Bundle, violations, attempts)
		}

		source := SourceGenerated
		if attempts > 1 {
			source = SourceRegenerated
		}
		if !p.cfg.Enabled {
			return Answer{Text: text, Source: source, Attempts: attempts}
		}

		err = p.verifier.Verify(text, req.Bundle, aliases)
		if err == nil {
			return Answer{Text: text, Source: source, Violations: violations, Attempts: attempts}
		}
		var ungrounded *UngroundedClaimError
		if !errors.As(err, &ungrounded) {
			return p.fallback(req.Bundle, violations, attempts)
		}

		violations = append(violations, ungrounded.Claims...)
		p.logger.InfoContext(ctx, "answer rejected", "attempt", attempts, "claims", ungrounded.Texts())
		req.Strict = true
		req.Violations = ungrounded.Texts()
	}
	return p.fallback(req.Bundle, violations, attempts)
}

func (p *Policy) fallback(b *facts.Bundle, violations []Claim, attempts int) Answer {
	return Answer{Text: facts.RenderText(b), Source: SourceFallback, Violations: violations, Attempts: attempts}
}

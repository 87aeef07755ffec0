package grounding

import (
	"fmt"
	"strings"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// ClaimKind distinguishes names from numbers.
type ClaimKind string

const (
	ClaimEntity ClaimKind = "entity"
	ClaimNumber ClaimKind = "number"
)

// Claim is a name or number asserted by an answer.
type Claim struct {
	Kind ClaimKind `json:"kind"`
	Text string    `json:"text"`
}

// UngroundedClaimError lists the claims of an answer that the bundle does not support.
type UngroundedClaimError struct {
	Claims []Claim
}

func (e *UngroundedClaimError) Error() string {
	parts := make([]string, len(e.Claims))
	for i, c := range e.Claims {
		parts[i] = fmt.Sprintf("%s %q", c.Kind, c.Text)
	}
	return "ungrounded claims in answer: " + strings.Join(parts, ", ")
}

// Unwrap exposes the UNGROUNDED_CLAIM code to types.HasCode.
func (e *UngroundedClaimError) Unwrap() error {
	return types.NewError(types.UNGROUNDED_CLAIM, fmt.Sprintf("%d unsupported claims", len(e.Claims)))
}

// Texts returns the claim texts in order.
func (e *UngroundedClaimError) Texts() []string {
	out := make([]string, len(e.Claims))
	for i, c := range e.Claims {
		out[i] = c.Text
	}
	return out
}

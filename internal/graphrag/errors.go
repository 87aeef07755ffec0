package graphrag

import (
	"context"
	"errors"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Messages shown in place of an answer. Raw store and generator errors never
// reach the user.
const (
	MessageUnavailable = "Investigation data is unavailable right now. Please try again shortly."
	MessageTimeout     = "The question took too long to answer. Try narrowing it down."
	MessageSuperseded  = "This question was superseded by a newer one."
	MessageFailed      = "The question could not be answered."
	MessageReset       = "Started a new investigation. Previous context has been cleared."
)

// IsStoreUnavailable reports whether err means the graph store could not be
// reached for the whole turn.
func IsStoreUnavailable(err error) bool {
	return types.HasCode(err, types.STORE_UNAVAILABLE)
}

// IsStaleTurn reports whether err means the turn was superseded.
func IsStaleTurn(err error) bool {
	return types.HasCode(err, types.STALE_TURN)
}

// UserMessage maps a turn error to a sanitized message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsStoreUnavailable(err):
		return MessageUnavailable
	case IsStaleTurn(err):
		return MessageSuperseded
	case errors.Is(err, context.DeadlineExceeded):
		return MessageTimeout
	default:
		return MessageFailed
	}
}

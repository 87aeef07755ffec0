package tui

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/engine"
)

// answerMsg carries a completed turn.
type answerMsg struct {
	question string
	resp     *engine.Response
}

// turnErrMsg carries a failed turn.
type turnErrMsg struct {
	question string
	err      error
}

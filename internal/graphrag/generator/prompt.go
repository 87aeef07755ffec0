package generator

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

const systemPrompt = `You are a crime investigation assistant.
Answer using ONLY the provided database results.
Do not mention any person, organization, location or number that does not appear in the results.
If the results are empty, say that no matching records were found.
Keep answers short and factual.`

const strictPrompt = `Your previous answer mentioned facts that are not in the database results: %s.
Rewrite the answer using ONLY names and numbers that appear verbatim in the results below.`

// BuildMessages lays out the prompt: system instruction, up to historyTurns
// prior turns, then the fact context and the question.
func BuildMessages(req Request, historyTurns int) []llms.MessageContent {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}

	history := req.History
	if historyTurns >= 0 && len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	for _, t := range history {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeHuman, t.Question),
			llms.TextParts(llms.ChatMessageTypeAI, t.Answer),
		)
	}

	var user strings.Builder
	if req.Strict {
		fmt.Fprintf(&user, strictPrompt, strings.Join(req.Violations, ", "))
		user.WriteString("\n\n")
	}
	user.WriteString("Database results:\n")
	user.WriteString(facts.RenderText(req.Bundle))
	user.WriteString("\n\nQuestion: ")
	user.WriteString(req.Question)

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, user.String()))
	return messages
}

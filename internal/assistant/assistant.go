// Package assistant produces replies for a conversation. The model itself
// lives behind Responder; this package also owns the light triage that tags
// chats with an urgency and a medical domain.
package assistant

import (
	"context"
	"strings"

	"github.com/zhubert/nelson/internal/chat"
)

// Responder generates the next assistant message for a conversation.
type Responder interface {
	Respond(ctx context.Context, history []chat.Message) (string, error)
}

// SystemPrompt frames every conversation.
const SystemPrompt = `You are NelsonGPT, a pediatric medical reference assistant for clinicians.
Answer with evidence-based guidance drawn from standard pediatric textbooks.
Give weight-based doses in mg/kg with maximums, and flag red-flag findings that need emergency care.
End every answer with one or more lines of the form "Source: <textbook>, <chapter>".
You are an educational reference, not a substitute for clinical judgement.`

// citationPrefixes mark trailing reference lines in a reply.
var citationPrefixes = []string{"Source:", "Reference:", "References:"}

// SplitCitations separates trailing reference lines from the body of a
// reply. Lines are matched case-insensitively by prefix.
func SplitCitations(content string) (body string, citations []string) {
	lines := strings.Split(strings.TrimRight(content, "\n "), "\n")
	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" {
			end--
			continue
		}
		ref, ok := citation(line)
		if !ok {
			break
		}
		if ref != "" {
			citations = append([]string{ref}, citations...)
		}
		end--
	}
	return strings.TrimRight(strings.Join(lines[:end], "\n"), "\n "), citations
}

func citation(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, p := range citationPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return strings.TrimSpace(line[len(p):]), true
		}
	}
	return "", false
}

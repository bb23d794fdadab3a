package brief

import (
	"context"
	"fmt"
	"strings"

	"quantbrief/pkg/llm"
)

// promptHeader is the fixed instruction block sent ahead of the articles.
const promptHeader = `You are a financial news summarizer.
Given the following news articles, provide a concise summary,
overall sentiment (Positive/Negative/Neutral),
and a suggested action for a retail trader. Format:
Summary: ...
Sentiment: ...
Action: ...

Articles:
`

// ChatClient is the slice of the LLM client the summarizer needs.
type ChatClient interface {
	Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}

// Summarizer turns article texts (or a fallback sentence) into a summary.
// Implementations must always return text; inference failures are embedded
// in the returned string, never raised.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) string
}

// LLMSummarizer summarizes via a chat completion call.
type LLMSummarizer struct {
	client ChatClient
}

// NewLLMSummarizer wraps a chat client.
func NewLLMSummarizer(client ChatClient) *LLMSummarizer {
	return &LLMSummarizer{client: client}
}

// Summarize builds the numbered-articles prompt and returns the model's
// trimmed reply. Any failure yields a placeholder embedding the error so
// the pipeline always has a summary value.
func (s *LLMSummarizer) Summarize(ctx context.Context, texts []string) string {
	resp, err := s.client.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: BuildPrompt(texts)}},
	})
	if err != nil {
		return fmt.Sprintf("Summary unavailable. Error: %v", err)
	}
	return resp.Text()
}

// BuildPrompt renders the fixed instruction header followed by each input
// numbered from one.
func BuildPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for i, t := range texts {
		fmt.Fprintf(&b, "Article %d: %s\n", i+1, t)
	}
	return b.String()
}

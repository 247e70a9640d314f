package summarizer

import "github.com/yanqian/video-summarizer/pkg/metrics"

// Config carries the generation settings; it is built once from process
// configuration and injected so tests can pin deterministic values.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// Prompt overrides DefaultPrompt when set. It must reference {{.Text}}.
	Prompt string
}

// Result is the raw model output for one transcript.
type Result struct {
	Text  string             `json:"text"`
	Model string             `json:"model"`
	Usage metrics.TokenUsage `json:"usage"`
}

// DefaultPrompt is the multi-step instruction template applied to every transcript.
const DefaultPrompt = `INSTRUCTIONS:
For the following transcript, complete these steps.
1. Generate a title based on the content provided.
2. Summarize the content and include the key topics, writing in the first person in a normal tone of voice.
3. Generate a bulleted list of key points and benefits.
4. Return the best recommended keywords.
5. Write a blog post based on the content:
   - Include a heading and sections.
   - Return it in markdown.
   - Incorporate the keywords and key takeaways into the blog post.
6. Write a recommendation section with 3 to 5 ways I can improve this blog post.

TRANSCRIPT:
{{.Text}}
`

package gemini

import (
	"context"
	"fmt"
)

var feedbackConfig = GenerationConfig{
	Temperature:     0.7,
	MaxOutputTokens: 200,
	TopP:            0.8,
	TopK:            40,
}

// GenerateFeedback returns two or three sentences of friendly feedback on answer.
func (c *Client) GenerateFeedback(ctx context.Context, answer, question string) (string, error) {
	prompt := fmt.Sprintf(`
You are giving feedback to a student in a job interview. They just answered this question:

Question: "%s"

Answer: "%s"

Give them simple, helpful feedback in 2-3 sentences. Use everyday words that are easy to understand.
Focus on:
1. Mentioning what they did well
2. Pointing out 1-2 small mistakes they could fix
3. Giving a simple tip for improvement

Use words a high school student would understand. Be friendly and encouraging.
`, question, answer)

	return c.Generate(ctx, prompt, feedbackConfig)
}

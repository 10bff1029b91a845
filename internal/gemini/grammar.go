package gemini

import (
	"context"
	"fmt"
	"strings"
)

var grammarConfig = GenerationConfig{
	Temperature:     0.2,
	MaxOutputTokens: 200,
	TopP:            0.95,
	TopK:            40,
}

// CorrectGrammar fixes small grammar and spelling mistakes while keeping the meaning.
func (c *Client) CorrectGrammar(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`
Correct any small grammar and spelling mistakes in this text, but keep the original meaning.
Use simple English. Return only the corrected text:

"%s"
`, text)

	out, err := c.Generate(ctx, prompt, grammarConfig)
	if err != nil {
		return "", err
	}
	return unquote(out), nil
}

// unquote strips one pair of matching quotes the model tends to echo back.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

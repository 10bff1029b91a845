package gemini

import (
	"context"
	"fmt"
	"strings"
)

var firstQuestionConfig = GenerationConfig{
	Temperature:     0.7,
	MaxOutputTokens: 150,
	TopP:            0.8,
	TopK:            40,
}

var followupQuestionConfig = GenerationConfig{
	Temperature:     0.8,
	MaxOutputTokens: 150,
	TopP:            0.9,
	TopK:            40,
}

// GenerateFirstTechnicalQuestion asks for one technical question grounded in the
// candidate's self-introduction.
func (c *Client) GenerateFirstTechnicalQuestion(ctx context.Context, profile string, asked []string) (string, error) {
	prompt := fmt.Sprintf(`
You are interviewing a student for their first tech job. Here's their self-introduction:
"%s"

Based on the skills, technologies, and experiences they mentioned, generate ONE specific technical interview question. If they mentioned specific technologies (like Java, Python, React, etc.), ask about those. If they mentioned projects, ask a technical question about the implementation details.

IMPORTANT GUIDELINES:
1. Make the question technical but appropriate for a beginner/student level
2. Only ask ONE question that is directly related to what they mentioned in their introduction
3. Use simple language that is easy to understand
4. Make sure the question ends with a question mark
5. Focus on the most prominent skill or technology they mentioned
6. DO NOT repeat any of these previously asked questions: %s
7. Make sure to explore a DIFFERENT aspect of their background than what was covered in previous questions

IMPORTANT: Return ONLY the question with no other text or explanations.
`, profile, strings.Join(asked, " | "))

	out, err := c.Generate(ctx, prompt, firstQuestionConfig)
	if err != nil {
		return "", err
	}
	return normalizeQuestion(out)
}

// GenerateFollowupQuestion asks for a question on a new aspect of the profile,
// ignoring intermediate answers. questionNumber is the 1-based number of the
// question just answered.
func (c *Client) GenerateFollowupQuestion(ctx context.Context, profile string, asked []string, questionNumber int) (string, error) {
	prompt := fmt.Sprintf(`
You are interviewing a student for their first tech job.

CANDIDATE PROFILE: "%s"

Based on the technical skills, projects, and experiences mentioned in their self-introduction above:
1. Generate ONE technical interview question that explores a DIFFERENT aspect of their background
2. Don't follow up on their previous answers, focus on something new from their initial self-introduction
3. Make it appropriate for a student/fresh graduate level
4. Use simple and clear language
5. Questions should progressively explore different aspects mentioned in their introduction
6. DO NOT repeat any of these previously asked questions: %s
7. Make your new question distinctly different from any previous questions

Current question number: %d

IMPORTANT: Return ONLY the question with a question mark. Don't include any other text or explanations.
`, profile, strings.Join(asked, " | "), questionNumber)

	out, err := c.Generate(ctx, prompt, followupQuestionConfig)
	if err != nil {
		return "", err
	}
	return normalizeQuestion(out)
}

// normalizeQuestion keeps the first non-empty line, strips quotes and markdown
// emphasis, and makes sure the result ends with a question mark.
func normalizeQuestion(raw string) (string, error) {
	q := ""
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			q = line
			break
		}
	}
	q = strings.Trim(q, "*_`")
	q = unquote(q)
	q = strings.TrimSpace(q)
	if q == "" {
		return "", fmt.Errorf("empty question")
	}
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	return q, nil
}

package interview

// TotalQuestions is the fixed length of an interview session.
const TotalQuestions = 15

// OpeningQuestion pre-seeds slot 0 of every session.
const OpeningQuestion = "Tell me about yourself"

var fallbackQuestions = [...]string{
	"What programming languages are you most comfortable with?",
	"Tell me about a project you worked on recently.",
	"What areas of technology are you interested in?",
	"Have you done any internships or part-time work?",
	"What kind of development interests you the most?",
	"What made you choose programming as your field of study?",
	"What tools or frameworks have you used in your projects?",
	"Tell me about a bug you encountered and how you solved it.",
	"What coding concepts do you find most interesting?",
	"What are your career goals after graduation?",
	"Have you worked on any team projects?",
	"What resources do you use to learn new programming concepts?",
	"What areas of programming would you like to improve?",
	"Tell me about a challenging assignment you completed recently.",
	"What technical skills are you hoping to develop?",
}

var feedbackTemplates = [...]string{
	"Your answer is good! Just make sure to include more specific examples next time.",
	"That's a clear answer. You might want to explain a bit more about why you made those choices.",
	"Good points! Try to be more specific about what you learned from that experience.",
	"Nice answer! Consider mentioning how this connects to the job you're applying for.",
	"Well explained! You could add a bit more about the challenges you faced.",
}

// FallbackQuestion returns the static question for index, clamped to the bank.
func FallbackQuestion(index int) string {
	if index < 0 {
		index = 0
	}
	if index >= len(fallbackQuestions) {
		index = len(fallbackQuestions) - 1
	}
	return fallbackQuestions[index]
}

// FallbackQuestions returns a copy of the static question bank.
func FallbackQuestions() []string {
	out := make([]string, len(fallbackQuestions))
	copy(out, fallbackQuestions[:])
	return out
}

// FeedbackTemplates returns a copy of the generic encouragement templates.
func FeedbackTemplates() []string {
	out := make([]string, len(feedbackTemplates))
	copy(out, feedbackTemplates[:])
	return out
}

// Rand is the random source used to pick fallback feedback.
// *rand.Rand from math/rand satisfies it.
type Rand interface {
	Intn(n int) int
}

func fallbackFeedback(r Rand) string {
	return feedbackTemplates[r.Intn(len(feedbackTemplates))]
}

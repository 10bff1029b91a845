package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
)

type practice struct {
	o           *interview.Orchestrator
	in          io.Reader
	out         io.Writer
	autoAdvance bool
}

func (p *practice) run(ctx context.Context) error {
	fmt.Fprintln(p.out, "Mock interview. Type your answer and press Enter.")
	fmt.Fprintln(p.out, "Commands: /next moves on, /history shows the session, /quit exits.")
	p.printQuestion()

	scanner := bufio.NewScanner(p.in)
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit":
			return nil
		case "/history":
			p.printHistory()
			continue
		case "/next":
			if done := p.advance(); done {
				return nil
			}
			continue
		}

		err := p.o.SubmitAnswer(ctx, line)
		switch {
		case errors.Is(err, interview.ErrEmptyAnswer):
			fmt.Fprintln(p.out, "Please type an answer first.")
			continue
		case errors.Is(err, interview.ErrCancelled):
			fmt.Fprintln(p.out, "Cancelled.")
			if ctx.Err() != nil {
				return nil
			}
			continue
		case err != nil:
			return err
		}

		v := p.o.View()
		fmt.Fprintf(p.out, "\nYour answer: %s\nFeedback: %s\n\n", v.CurrentAnswer, v.CurrentFeedback)

		if p.autoAdvance {
			if done := p.advance(); done {
				return nil
			}
		} else {
			fmt.Fprintln(p.out, "Type /next for the next question, or answer again.")
		}
	}
}

// advance reports whether the interview is over.
func (p *practice) advance() bool {
	err := p.o.Advance()
	switch {
	case errors.Is(err, interview.ErrNoFeedbackYet):
		fmt.Fprintln(p.out, "Answer the current question before moving on.")
		return false
	case errors.Is(err, interview.ErrSessionComplete):
		fmt.Fprintf(p.out, "Interview complete. You answered all %d questions.\n", interview.TotalQuestions)
		return true
	case err != nil:
		fmt.Fprintf(p.out, "Could not move on: %v\n", err)
		return false
	}
	p.printQuestion()
	return false
}

func (p *practice) printQuestion() {
	v := p.o.View()
	fmt.Fprintf(p.out, "\nQuestion %d/%d: %s\n", v.QuestionNumber, v.TotalQuestions, v.CurrentQuestion)
}

func (p *practice) printHistory() {
	questions := p.o.AllQuestions()
	answers := p.o.AllAnswers()
	feedback := p.o.AllFeedback()

	for i, q := range questions {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, q)
		if i < len(answers) && answers[i] != "" {
			fmt.Fprintf(p.out, "   answer:   %s\n", answers[i])
		}
		if i < len(feedback) && feedback[i] != "" {
			fmt.Fprintf(p.out, "   feedback: %s\n", feedback[i])
		}
	}
}

package interview

import (
	"fmt"
	"slices"
	"time"
)

// State is a serializable copy of a session. It never carries in-flight requests.
type State struct {
	ID               string    `json:"id"`
	Questions        []string  `json:"questions"`
	Answers          []string  `json:"answers"`
	Feedback         []string  `json:"feedback"`
	CurrentIndex     int       `json:"current_index"`
	CandidateProfile string    `json:"candidate_profile"`
	AskedQuestions   []string  `json:"asked_questions"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Snapshot returns a deep copy of the session state.
func (o *Orchestrator) Snapshot() State {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return State{
		ID:               o.id,
		Questions:        o.questions.list(),
		Answers:          o.answers.list(),
		Feedback:         o.feedback.list(),
		CurrentIndex:     o.current,
		CandidateProfile: o.profile,
		AskedQuestions:   append([]string(nil), o.asked...),
		Completed:        o.completed,
		CreatedAt:        o.createdAt,
		UpdatedAt:        o.updatedAt,
	}
}

// Restore rebuilds an orchestrator from a snapshot. Empty strings in the slot
// lists are treated as unset.
func Restore(st State, opts Options) (*Orchestrator, error) {
	if st.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidState)
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= TotalQuestions {
		return nil, fmt.Errorf("%w: current index %d", ErrInvalidState, st.CurrentIndex)
	}
	if len(st.Questions) > TotalQuestions || len(st.Answers) > TotalQuestions || len(st.Feedback) > TotalQuestions {
		return nil, fmt.Errorf("%w: more than %d slots", ErrInvalidState, TotalQuestions)
	}
	if st.CurrentIndex >= len(st.Questions) || st.Questions[st.CurrentIndex] == "" {
		return nil, fmt.Errorf("%w: no question at index %d", ErrInvalidState, st.CurrentIndex)
	}

	o := newOrchestrator(st.ID, opts)
	if err := fill(&o.questions, st.Questions, st.CurrentIndex+1); err != nil {
		return nil, err
	}
	if err := fill(&o.answers, st.Answers, st.CurrentIndex); err != nil {
		return nil, err
	}
	if err := fill(&o.feedback, st.Feedback, st.CurrentIndex); err != nil {
		return nil, err
	}

	o.current = st.CurrentIndex
	o.profile = st.CandidateProfile
	o.completed = st.Completed
	o.createdAt = st.CreatedAt
	o.updatedAt = st.UpdatedAt

	o.asked = make([]string, 0, len(st.AskedQuestions)+len(st.Questions))
	for _, q := range st.AskedQuestions {
		o.asked = appendUnique(o.asked, q)
	}
	for _, q := range st.Questions {
		if q != "" {
			o.asked = appendUnique(o.asked, q)
		}
	}
	return o, nil
}

func fill(s *slots, values []string, ceiling int) error {
	for i, v := range values {
		if v == "" {
			continue
		}
		if err := s.set(i, ceiling, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

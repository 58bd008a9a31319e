/* machine.go
 * Contains the quiz state machine. A machine walks the question list in order, tallying each answer, and freezes the
 * score into a result once the last question is answered. It is not safe for concurrent use; callers serialise
 * access (see api.Session).
 */

package quiz

import (
	"errors"

	"l2match/api/logic"
	"l2match/api/shared"
)

// ErrQuizFinished is returned by Answer once every question has been answered and until Reset is called
var ErrQuizFinished = errors.New("quiz already finished")

// ErrNoQuestions is returned by NewMachine for an empty question list
var ErrNoQuestions = errors.New("quiz needs at least one question")

// State is the machine's position: in progress at Index, or finished
type State struct {
	Finished bool `json:"finished"`
	Index    int  `json:"index"`
}

// Progress is the view of how far through the quiz a run is
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Machine is one run of the quiz
type Machine struct {
	questions []shared.Question
	index     int
	finished  bool
	score     shared.Score
	result    string
	winners   []shared.Category
}

// NewMachine creates a machine at the first question with a zero score
func NewMachine(questions []shared.Question) (*Machine, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Machine{questions: questions}, nil
}

// Answer applies the answer to the current question and advances. Answering the last question finishes the run and
// computes the result.
// Preconditions: the machine is in progress
// Postconditions: returns ErrQuizFinished without touching score or result if the run is already finished
func (m *Machine) Answer(label string) error {
	if m.finished {
		return ErrQuizFinished
	}

	m.score = logic.ApplyAnswer(m.score, m.questions[m.index], label)

	if m.index+1 < len(m.questions) {
		m.index++
		return nil
	}

	m.finished = true
	m.result, m.winners = logic.ComputeResult(m.score)
	return nil
}

// Reset returns the machine to the first question with a zero score and no result
func (m *Machine) Reset() {
	m.index = 0
	m.finished = false
	m.score = shared.Score{}
	m.result = ""
	m.winners = nil
}

// Current returns the question waiting for an answer, or false when the run is finished
func (m *Machine) Current() (shared.Question, bool) {
	if m.finished {
		return shared.Question{}, false
	}
	return m.questions[m.index], true
}

func (m *Machine) State() State {
	return State{Finished: m.finished, Index: m.index}
}

func (m *Machine) Finished() bool {
	return m.finished
}

// Score returns a copy of the running score
func (m *Machine) Score() shared.Score {
	return m.score
}

// Result returns the result and the tied categories, or an empty string before the run is finished
func (m *Machine) Result() (string, []shared.Category) {
	winners := make([]shared.Category, len(m.winners))
	copy(winners, m.winners)
	return m.result, winners
}

// Total returns the number of questions
func (m *Machine) Total() int {
	return len(m.questions)
}

// Progress returns the position of the run. The current question counts as reached, so the first question reports
// 1 of 5 (20%) and a finished run reports 100%.
func (m *Machine) Progress() Progress {
	total := len(m.questions)
	current := m.index + 1
	return Progress{
		Current: current,
		Total:   total,
		Percent: float64(current) / float64(total) * 100,
	}
}

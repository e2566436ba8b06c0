package saga

import (
	"fmt"

	"github.com/getevo/evo/v2/lib/log"
)

// Step is one unit of a multi-entity creation flow. Run performs the work,
// Undo reverts it. Undo is only invoked for steps whose Run succeeded.
type Step struct {
	Name string
	Run  func() error
	Undo func() error
}

// Saga executes steps in order and keeps an undo stack. There is no
// transaction underneath: compensation is best effort and a failed undo
// leaves orphaned records behind.
type Saga struct {
	name string
	undo []Step
}

// New creates a named saga. The name shows up in logs on compensation.
func New(name string) *Saga {
	return &Saga{name: name}
}

// Execute runs the steps sequentially. On the first failure it compensates
// every completed step in reverse order and returns the original error.
func (s *Saga) Execute(steps ...Step) error {
	for _, step := range steps {
		if err := step.Run(); err != nil {
			compErr := s.Compensate()
			if compErr != nil {
				return fmt.Errorf("%s: step %s failed: %w (compensation incomplete: %v)", s.name, step.Name, err, compErr)
			}
			return fmt.Errorf("%s: step %s failed: %w", s.name, step.Name, err)
		}
		if step.Undo != nil {
			s.undo = append(s.undo, step)
		}
	}
	s.undo = nil
	return nil
}

// Compensate pops and runs undo actions in reverse order. A failing undo is
// logged as a fatal inconsistency and reported, but does not stop the
// remaining undos from running; the record it leaves behind needs manual
// reconciliation.
func (s *Saga) Compensate() error {
	var failed []string
	for i := len(s.undo) - 1; i >= 0; i-- {
		step := s.undo[i]
		if err := step.Undo(); err != nil {
			log.Error("[saga] %s: compensation for step %s failed, orphaned record requires manual reconciliation: %v", s.name, step.Name, err)
			failed = append(failed, step.Name)
		}
	}
	s.undo = nil
	if len(failed) > 0 {
		return fmt.Errorf("compensation failed for steps %v", failed)
	}
	return nil
}

package wizard

import "fmt"

// Navigator is the step state machine for one chain workflow.
//
// Forward movement is validation-gated by the session; the navigator
// itself only enforces ordering: Advance stops at the terminal step,
// Retreat is always allowed, and JumpTo can only reach steps the user
// has already validated (so review-page links cannot skip data entry).
type Navigator struct {
	steps   []Step
	idx     int
	highest int // highest index reached via validated advances
}

// NewNavigator starts at the first step of the sequence.
func NewNavigator(steps []Step) (*Navigator, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty step sequence")
	}
	return &Navigator{steps: append([]Step(nil), steps...)}, nil
}

// Current returns the active step.
func (n *Navigator) Current() Step { return n.steps[n.idx] }

// Steps returns the full sequence.
func (n *Navigator) Steps() []Step { return append([]Step(nil), n.steps...) }

// Terminal reports whether the active step is the last one.
func (n *Navigator) Terminal() bool { return n.idx == len(n.steps)-1 }

// Advance moves to the next step. On the terminal step it is a no-op
// and returns false; submission is an explicit external act, not an
// advance.
func (n *Navigator) Advance() bool {
	if n.Terminal() {
		return false
	}
	n.idx++
	if n.idx > n.highest {
		n.highest = n.idx
	}
	return true
}

// Retreat moves to the previous step. Never discards data and never
// lowers the validated high-water mark.
func (n *Navigator) Retreat() bool {
	if n.idx == 0 {
		return false
	}
	n.idx--
	return true
}

// JumpTo moves directly to a step at or before the highest step
// already validated.
func (n *Navigator) JumpTo(step Step) error {
	for i, s := range n.steps {
		if s != step {
			continue
		}
		if i > n.highest {
			return fmt.Errorf("cannot jump to %q: step not reached yet", step)
		}
		n.idx = i
		return nil
	}
	return fmt.Errorf("step %q not in sequence", step)
}

// Reached reports whether a step is reachable via JumpTo.
func (n *Navigator) Reached(step Step) bool {
	for i, s := range n.steps {
		if s == step {
			return i <= n.highest
		}
	}
	return false
}

package wizard

import "testing"

func cosmosSteps(t *testing.T) []Step {
	t.Helper()
	steps, ok := DefaultWorkflows().StepsFor("cosmos")
	if !ok {
		t.Fatal("cosmos workflow missing")
	}
	return steps
}

func TestCosmosStepSequence(t *testing.T) {
	steps := cosmosSteps(t)
	want := []Step{StepName, StepNodes, StepRepositories, StepChannels, StepReview}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("steps[%d] = %q, want %q", i, steps[i], want[i])
		}
	}
}

func TestAdvanceWalksToReviewThenStops(t *testing.T) {
	nav, err := NewNavigator(cosmosSteps(t))
	if err != nil {
		t.Fatalf("NewNavigator: %v", err)
	}
	if nav.Current() != StepName {
		t.Fatalf("initial step = %q, want name", nav.Current())
	}
	for i := 0; i < 4; i++ {
		if !nav.Advance() {
			t.Fatalf("advance %d returned false", i)
		}
	}
	if nav.Current() != StepReview || !nav.Terminal() {
		t.Fatalf("step after 4 advances = %q, want review (terminal)", nav.Current())
	}
	// Advance from review is a no-op.
	if nav.Advance() {
		t.Error("advance from review succeeded, want no-op")
	}
	if nav.Current() != StepReview {
		t.Errorf("step after no-op advance = %q", nav.Current())
	}
}

func TestRetreatAlwaysAllowedUntilFirstStep(t *testing.T) {
	nav, _ := NewNavigator(cosmosSteps(t))
	nav.Advance()
	nav.Advance() // repositories
	if !nav.Retreat() {
		t.Fatal("retreat from repositories failed")
	}
	if nav.Current() != StepNodes {
		t.Fatalf("step = %q, want nodes", nav.Current())
	}
	nav.Retreat()
	if nav.Retreat() {
		t.Error("retreat from first step succeeded, want no-op")
	}
}

func TestJumpToOnlyReachesValidatedSteps(t *testing.T) {
	nav, _ := NewNavigator(cosmosSteps(t))
	nav.Advance() // name validated, now nodes
	nav.Advance() // nodes validated, now repositories

	if err := nav.JumpTo(StepName); err != nil {
		t.Fatalf("jump back to name: %v", err)
	}
	if nav.Current() != StepName {
		t.Fatalf("step = %q, want name", nav.Current())
	}
	// Forward jump within the validated range is fine.
	if err := nav.JumpTo(StepRepositories); err != nil {
		t.Fatalf("jump to repositories: %v", err)
	}
	// Beyond the high-water mark is not.
	if err := nav.JumpTo(StepChannels); err == nil {
		t.Error("jump to channels succeeded, want rejection")
	}
	if err := nav.JumpTo(Step("bogus")); err == nil {
		t.Error("jump to unknown step succeeded, want rejection")
	}
}

func TestRetreatDoesNotLowerHighWaterMark(t *testing.T) {
	nav, _ := NewNavigator(cosmosSteps(t))
	nav.Advance()
	nav.Advance() // repositories, highest = repositories
	nav.Retreat()
	nav.Retreat() // back at name
	if !nav.Reached(StepRepositories) {
		t.Error("repositories unreachable after retreating, want still reachable")
	}
	if err := nav.JumpTo(StepRepositories); err != nil {
		t.Errorf("jump to repositories after retreat: %v", err)
	}
}

func TestNewNavigatorRejectsEmptySequence(t *testing.T) {
	if _, err := NewNavigator(nil); err == nil {
		t.Fatal("empty sequence accepted")
	}
}

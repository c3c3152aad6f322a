package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ---------------------------------------------------------------------------
// Step identifiers
// ---------------------------------------------------------------------------

// Step names a wizard page. The set is fixed; which steps a chain type
// visits, and in what order, comes from the workflow table.
type Step string

const (
	StepName         Step = "name"
	StepNodes        Step = "nodes"
	StepRepositories Step = "repositories"
	StepChannels     Step = "channels"
	StepReview       Step = "review"
)

var knownSteps = map[Step]bool{
	StepName:         true,
	StepNodes:        true,
	StepRepositories: true,
	StepChannels:     true,
	StepReview:       true,
}

// Channel kinds the backend can deliver to.
var knownChannelKinds = []string{"telegram", "slack", "pagerduty", "opsgenie", "email", "twilio"}

// ---------------------------------------------------------------------------
// Workflow table (TOML-based)
// ---------------------------------------------------------------------------

// Workflow defines the step sequence and legal channel kinds for one
// chain type.
type Workflow struct {
	Type     string   `toml:"type"`
	Label    string   `toml:"label"`
	Steps    []string `toml:"steps"`
	Channels []string `toml:"channels"`
}

type workflowFile struct {
	Workflow []Workflow `toml:"workflow"`
}

const defaultWorkflowsTOML = `# Panoptes setup workflows
# One [[workflow]] block per chain type. Steps run in the listed order;
# every sequence starts at "name" and ends at "review".

[[workflow]]
type = "general"
label = "General / system monitoring"
steps = ["name", "nodes", "channels", "review"]
channels = ["telegram", "slack", "pagerduty", "opsgenie", "email", "twilio"]

[[workflow]]
type = "cosmos"
label = "Cosmos SDK network"
steps = ["name", "nodes", "repositories", "channels", "review"]
channels = ["telegram", "slack", "pagerduty", "opsgenie", "email", "twilio"]

[[workflow]]
type = "chainlink"
label = "Chainlink node operator"
steps = ["name", "nodes", "repositories", "channels", "review"]
channels = ["telegram", "slack", "pagerduty", "opsgenie", "email", "twilio"]

[[workflow]]
type = "substrate"
label = "Substrate network"
steps = ["name", "nodes", "repositories", "channels", "review"]
channels = ["telegram", "slack", "pagerduty", "opsgenie", "email", "twilio"]
`

// WorkflowSet is the parsed, validated workflow table keyed by chain
// type.
type WorkflowSet struct {
	byType map[string]Workflow
	types  []string
}

// DefaultWorkflows parses the embedded table.
func DefaultWorkflows() *WorkflowSet {
	ws, err := ParseWorkflows([]byte(defaultWorkflowsTOML))
	if err != nil {
		// The embedded table is covered by tests; failing here means
		// the binary shipped broken.
		panic(fmt.Sprintf("embedded workflows: %v", err))
	}
	return ws
}

// LoadWorkflows reads a workflow table from path, falling back to the
// embedded default when the file does not exist.
func LoadWorkflows(path string) (*WorkflowSet, error) {
	if path == "" {
		return DefaultWorkflows(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultWorkflows(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workflows: %w", err)
	}
	return ParseWorkflows(data)
}

// ParseWorkflows parses and validates TOML workflow definitions.
func ParseWorkflows(data []byte) (*WorkflowSet, error) {
	var f workflowFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse workflows: %w", err)
	}
	if len(f.Workflow) == 0 {
		return nil, fmt.Errorf("no workflows defined")
	}
	ws := &WorkflowSet{byType: make(map[string]Workflow, len(f.Workflow))}
	for i, w := range f.Workflow {
		w.Type = strings.ToLower(strings.TrimSpace(w.Type))
		if w.Type == "" {
			return nil, fmt.Errorf("workflow[%d]: type is required", i)
		}
		if _, ok := ws.byType[w.Type]; ok {
			return nil, fmt.Errorf("workflow[%d]: duplicate type %q", i, w.Type)
		}
		if err := validateWorkflow(w); err != nil {
			return nil, fmt.Errorf("workflow[%d] %q: %w", i, w.Type, err)
		}
		ws.byType[w.Type] = w
		ws.types = append(ws.types, w.Type)
	}
	return ws, nil
}

func validateWorkflow(w Workflow) error {
	if len(w.Steps) < 2 {
		return fmt.Errorf("at least two steps required")
	}
	seen := map[Step]bool{}
	for _, raw := range w.Steps {
		step := Step(strings.ToLower(strings.TrimSpace(raw)))
		if !knownSteps[step] {
			return fmt.Errorf("unknown step %q", raw)
		}
		if seen[step] {
			return fmt.Errorf("step %q repeated", raw)
		}
		seen[step] = true
	}
	if Step(w.Steps[0]) != StepName {
		return fmt.Errorf("first step must be %q", StepName)
	}
	if Step(w.Steps[len(w.Steps)-1]) != StepReview {
		return fmt.Errorf("last step must be %q", StepReview)
	}
	for _, kind := range w.Channels {
		if !isKnownChannelKind(kind) {
			return fmt.Errorf("unknown channel kind %q", kind)
		}
	}
	return nil
}

func isKnownChannelKind(kind string) bool {
	for _, k := range knownChannelKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Types returns the chain types in definition order.
func (ws *WorkflowSet) Types() []string {
	return append([]string(nil), ws.types...)
}

// Lookup returns the workflow for a chain type.
func (ws *WorkflowSet) Lookup(chainType string) (Workflow, bool) {
	w, ok := ws.byType[strings.ToLower(chainType)]
	return w, ok
}

// StepsFor returns the step sequence for a chain type.
func (ws *WorkflowSet) StepsFor(chainType string) ([]Step, bool) {
	w, ok := ws.Lookup(chainType)
	if !ok {
		return nil, false
	}
	steps := make([]Step, len(w.Steps))
	for i, s := range w.Steps {
		steps[i] = Step(strings.ToLower(s))
	}
	return steps, true
}

// ChannelKindsFor returns the legal channel kinds for a chain type.
func (ws *WorkflowSet) ChannelKindsFor(chainType string) []string {
	w, ok := ws.Lookup(chainType)
	if !ok {
		return nil
	}
	return append([]string(nil), w.Channels...)
}

// Label returns the human label for a chain type, falling back to the
// type itself.
func (ws *WorkflowSet) Label(chainType string) string {
	if w, ok := ws.Lookup(chainType); ok && w.Label != "" {
		return w.Label
	}
	return chainType
}

package wizard

import "fmt"

// ---------------------------------------------------------------------------
// Action vocabulary
// ---------------------------------------------------------------------------
//
// A closed, tagged set of mutation requests. Constructing an action has
// no side effect; only Reduce applies it. The set is deliberately
// asymmetric: nodes and repositories are append-only within a chain,
// and a chain is rebuilt wholesale when it needs item-level edits.

// Action kind tags, also the wire names used in session snapshots.
const (
	KindAddChain      = "ADD_CHAIN"
	KindRemoveChain   = "REMOVE_CHAIN"
	KindUpdateChain   = "UPDATE_CHAIN"
	KindAddNode       = "ADD_NODE"
	KindAddRepository = "ADD_REPOSITORY"
)

// Action is the sealed interface over the five mutation requests.
// The unexported marker keeps the vocabulary closed to this package.
type Action interface {
	Kind() string
	// Validate checks the payload structurally (non-empty ids).
	// Store-level checks (collisions, existence) belong to Reduce.
	Validate() error
	isAction()
}

// AddChain creates a chain with empty node/repository lists.
type AddChain struct {
	ID   string
	Name string
	Type string
}

func (AddChain) Kind() string { return KindAddChain }
func (AddChain) isAction()    {}

func (a AddChain) Validate() error {
	errs := map[string]string{}
	if a.ID == "" {
		errs["id"] = "chain id is required"
	}
	if a.Name == "" {
		errs["name"] = "chain name is required"
	}
	if a.Type == "" {
		errs["type"] = "chain type is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// RemoveChain deletes a chain and cascades to its owned nodes and
// repositories.
type RemoveChain struct {
	ID string
}

func (RemoveChain) Kind() string { return KindRemoveChain }
func (RemoveChain) isAction()    {}

func (a RemoveChain) Validate() error {
	if a.ID == "" {
		return &ValidationError{Fields: map[string]string{"id": "chain id is required"}}
	}
	return nil
}

// ChainPatch holds the mergeable chain fields for UpdateChain. Nil
// pointers mean "leave unchanged"; a non-nil Channels slice replaces
// the chain's channel list wholesale (the CHANNELS step commits its
// whole selection in one patch).
type ChainPatch struct {
	Name     *string
	Channels []Channel
}

func (p ChainPatch) empty() bool { return p.Name == nil && p.Channels == nil }

// UpdateChain merges a patch into an existing chain record.
type UpdateChain struct {
	ID    string
	Patch ChainPatch
}

func (UpdateChain) Kind() string { return KindUpdateChain }
func (UpdateChain) isAction()    {}

func (a UpdateChain) Validate() error {
	errs := map[string]string{}
	if a.ID == "" {
		errs["id"] = "chain id is required"
	}
	if a.Patch.Name != nil && *a.Patch.Name == "" {
		errs["name"] = "chain name cannot be cleared"
	}
	for i, ch := range a.Patch.Channels {
		if ch.Kind == "" {
			errs[fmt.Sprintf("channels[%d].kind", i)] = "channel kind is required"
		}
		if ch.Target == "" {
			errs[fmt.Sprintf("channels[%d].target", i)] = "channel target is required"
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// AddNode appends a node to a chain's node list.
type AddNode struct {
	ChainID string
	Node    Node
}

func (AddNode) Kind() string { return KindAddNode }
func (AddNode) isAction()    {}

func (a AddNode) Validate() error {
	errs := map[string]string{}
	if a.ChainID == "" {
		errs["chainId"] = "chain id is required"
	}
	if a.Node.ID == "" {
		errs["node.id"] = "node id is required"
	}
	if a.Node.Endpoint == "" {
		errs["node.endpoint"] = "node endpoint is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// AddRepository appends a repository to a chain's repository list.
type AddRepository struct {
	ChainID    string
	Repository Repository
}

func (AddRepository) Kind() string { return KindAddRepository }
func (AddRepository) isAction()    {}

func (a AddRepository) Validate() error {
	errs := map[string]string{}
	if a.ChainID == "" {
		errs["chainId"] = "chain id is required"
	}
	if a.Repository.ID == "" {
		errs["repository.id"] = "repository id is required"
	}
	if a.Repository.URL == "" {
		errs["repository.url"] = "repository url is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

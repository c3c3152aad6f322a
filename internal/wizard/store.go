package wizard

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

// Channel is an alert delivery target attached to a chain. Channels
// are plain chain fields, replaced wholesale via UpdateChain patches.
type Channel struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// Node is a monitored endpoint owned by exactly one chain.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Monitor  bool   `json:"monitor"`
}

// Repository is a tracked source repository owned by exactly one
// chain, watched for new releases.
type Repository struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Monitor bool   `json:"monitor"`
}

// Chain is the root of a small entity tree. Nodes and Repositories are
// in insertion order, preserved across edits.
type Chain struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Nodes        []Node       `json:"nodes"`
	Repositories []Repository `json:"repositories"`
	Channels     []Channel    `json:"channels,omitempty"`
}

// NewID returns a fresh entity id.
func NewID() string { return uuid.NewString() }

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store is the normalized entity table. It is a value: Reduce returns
// a new Store and never mutates its input, so callers may keep old
// stores around for comparison or undo.
type Store struct {
	chains map[string]Chain
	order  []string
}

// NewStore returns an empty store.
func NewStore() Store {
	return Store{chains: map[string]Chain{}}
}

// Len returns the number of chains.
func (s Store) Len() int { return len(s.order) }

// Chain returns the chain with the given id.
func (s Store) Chain(id string) (Chain, bool) {
	c, ok := s.chains[id]
	return c, ok
}

// Chains returns all chains in insertion order.
func (s Store) Chains() []Chain {
	out := make([]Chain, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chains[id])
	}
	return out
}

// nameTaken reports whether name is already used by another chain of
// the same type. Comparison is case-insensitive, matching how users
// perceive "two Cosmos chains with the same name".
func (s Store) nameTaken(name, chainType, excludeID string) bool {
	for _, c := range s.chains {
		if c.ID == excludeID {
			continue
		}
		if c.Type == chainType && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// clone copies the map and order so a reduction can write without
// touching the input store. Chain values are copied on write by the
// individual arms; only the chain being modified gets its slices
// duplicated.
func (s Store) clone() Store {
	next := Store{
		chains: make(map[string]Chain, len(s.chains)),
		order:  make([]string, len(s.order)),
	}
	for id, c := range s.chains {
		next.chains[id] = c
	}
	copy(next.order, s.order)
	return next
}

// Reduce applies an action to the store and returns the next store.
// Pure: on error the input store is returned unchanged. Unknown action
// kinds are an error, never a silent no-op.
func Reduce(s Store, action Action) (Store, error) {
	if s.chains == nil {
		s = NewStore()
	}
	if action == nil {
		return s, &UnknownActionError{Kind: "<nil>"}
	}
	if err := action.Validate(); err != nil {
		return s, err
	}

	switch a := action.(type) {
	case AddChain:
		return s.reduceAddChain(a)
	case RemoveChain:
		return s.reduceRemoveChain(a)
	case UpdateChain:
		return s.reduceUpdateChain(a)
	case AddNode:
		return s.reduceAddNode(a)
	case AddRepository:
		return s.reduceAddRepository(a)
	default:
		return s, &UnknownActionError{Kind: action.Kind()}
	}
}

func (s Store) reduceAddChain(a AddChain) (Store, error) {
	if _, ok := s.chains[a.ID]; ok {
		return s, &DuplicateIdentityError{Field: "id", Value: a.ID}
	}
	if s.nameTaken(a.Name, a.Type, "") {
		return s, &DuplicateIdentityError{Field: "name", Value: a.Name, ChainType: a.Type}
	}
	next := s.clone()
	next.chains[a.ID] = Chain{ID: a.ID, Name: a.Name, Type: a.Type}
	next.order = append(next.order, a.ID)
	return next, nil
}

func (s Store) reduceRemoveChain(a RemoveChain) (Store, error) {
	if _, ok := s.chains[a.ID]; !ok {
		return s, &UnknownEntityError{Entity: "chain", ID: a.ID}
	}
	next := s.clone()
	// Nodes and repositories live inside the chain record, so deleting
	// the chain is the cascade.
	delete(next.chains, a.ID)
	order := next.order[:0]
	for _, id := range next.order {
		if id != a.ID {
			order = append(order, id)
		}
	}
	next.order = order
	return next, nil
}

func (s Store) reduceUpdateChain(a UpdateChain) (Store, error) {
	c, ok := s.chains[a.ID]
	if !ok {
		return s, &UnknownEntityError{Entity: "chain", ID: a.ID}
	}
	if a.Patch.Name != nil && s.nameTaken(*a.Patch.Name, c.Type, c.ID) {
		return s, &DuplicateIdentityError{Field: "name", Value: *a.Patch.Name, ChainType: c.Type}
	}
	if a.Patch.empty() {
		return s, nil
	}
	if a.Patch.Name != nil {
		c.Name = *a.Patch.Name
	}
	if a.Patch.Channels != nil {
		c.Channels = append([]Channel(nil), a.Patch.Channels...)
	}
	next := s.clone()
	next.chains[a.ID] = c
	return next, nil
}

func (s Store) reduceAddNode(a AddNode) (Store, error) {
	c, ok := s.chains[a.ChainID]
	if !ok {
		return s, &UnknownEntityError{Entity: "chain", ID: a.ChainID}
	}
	for _, n := range c.Nodes {
		if n.ID == a.Node.ID {
			return s, &DuplicateIdentityError{Field: "id", Value: a.Node.ID}
		}
	}
	nodes := make([]Node, 0, len(c.Nodes)+1)
	nodes = append(nodes, c.Nodes...)
	c.Nodes = append(nodes, a.Node)
	next := s.clone()
	next.chains[a.ChainID] = c
	return next, nil
}

func (s Store) reduceAddRepository(a AddRepository) (Store, error) {
	c, ok := s.chains[a.ChainID]
	if !ok {
		return s, &UnknownEntityError{Entity: "chain", ID: a.ChainID}
	}
	for _, r := range c.Repositories {
		if r.ID == a.Repository.ID {
			return s, &DuplicateIdentityError{Field: "id", Value: a.Repository.ID}
		}
	}
	repos := make([]Repository, 0, len(c.Repositories)+1)
	repos = append(repos, c.Repositories...)
	c.Repositories = append(repos, a.Repository)
	next := s.clone()
	next.chains[a.ChainID] = c
	return next, nil
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

type storeDoc struct {
	Chains []Chain `json:"chains"`
}

// MarshalJSON serializes the store as an ordered chain list.
func (s Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(storeDoc{Chains: s.Chains()})
}

// UnmarshalJSON rebuilds the normalized table from an ordered chain
// list, rejecting duplicate ids.
func (s *Store) UnmarshalJSON(data []byte) error {
	var doc storeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	next := NewStore()
	for _, c := range doc.Chains {
		if _, ok := next.chains[c.ID]; ok {
			return &DuplicateIdentityError{Field: "id", Value: c.ID}
		}
		next.chains[c.ID] = c
		next.order = append(next.order, c.ID)
	}
	*s = next
	return nil
}

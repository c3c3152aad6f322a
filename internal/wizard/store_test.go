package wizard

import (
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func mustReduce(t *testing.T, s Store, a Action) Store {
	t.Helper()
	next, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%s): %v", a.Kind(), err)
	}
	return next
}

func seedChain(t *testing.T, s Store, id, name, chainType string) Store {
	t.Helper()
	return mustReduce(t, s, AddChain{ID: id, Name: name, Type: chainType})
}

// ---------------------------------------------------------------------------
// AddChain
// ---------------------------------------------------------------------------

func TestAddChainCreatesEmptyChain(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	if s.Len() != 1 {
		t.Fatalf("store has %d chains, want 1", s.Len())
	}
	c, ok := s.Chain("c1")
	if !ok {
		t.Fatal("chain c1 not found")
	}
	if c.Name != "cosmos-1" || c.Type != "cosmos" {
		t.Errorf("chain = %+v, want name cosmos-1 type cosmos", c)
	}
	if len(c.Nodes) != 0 || len(c.Repositories) != 0 {
		t.Errorf("new chain has nodes=%d repos=%d, want empty lists", len(c.Nodes), len(c.Repositories))
	}
}

func TestAddChainDuplicateIDRejected(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	next, err := Reduce(s, AddChain{ID: "c1", Name: "other", Type: "cosmos"})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want DuplicateIdentity", err)
	}
	if next.Len() != 1 {
		t.Errorf("store changed on rejected action: %d chains", next.Len())
	}
}

func TestAddChainDuplicateNameSameTypeRejected(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	_, err := Reduce(s, AddChain{ID: "c2", Name: "cosmos-1", Type: "cosmos"})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want DuplicateIdentity", err)
	}
	var dup *DuplicateIdentityError
	if !errors.As(err, &dup) || dup.Field != "name" {
		t.Errorf("err detail = %#v, want name collision", err)
	}
}

func TestAddChainSameNameDifferentTypeAllowed(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "mainnet", "cosmos")
	s = seedChain(t, s, "c2", "mainnet", "substrate")
	if s.Len() != 2 {
		t.Fatalf("store has %d chains, want 2", s.Len())
	}
}

func TestAddChainNameCollisionIsCaseInsensitive(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "Mainnet", "cosmos")
	_, err := Reduce(s, AddChain{ID: "c2", Name: "mainnet", Type: "cosmos"})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want DuplicateIdentity", err)
	}
}

// ---------------------------------------------------------------------------
// RemoveChain
// ---------------------------------------------------------------------------

func TestRemoveChainCascades(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "val", Endpoint: "host:26657"}})
	s = mustReduce(t, s, RemoveChain{ID: "c1"})
	if s.Len() != 0 {
		t.Fatalf("store has %d chains after remove, want 0", s.Len())
	}

	// References to the removed chain are now unknown-entity errors.
	_, err := Reduce(s, AddNode{ChainID: "c1", Node: Node{ID: "n2", Name: "val2", Endpoint: "host:26657"}})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("AddNode after remove: err = %v, want UnknownEntity", err)
	}
	_, err = Reduce(s, AddRepository{ChainID: "c1", Repository: Repository{ID: "r1", URL: "github.com/cosmos/gaia"}})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("AddRepository after remove: err = %v, want UnknownEntity", err)
	}
}

func TestRemoveChainUnknownIDRejected(t *testing.T) {
	_, err := Reduce(NewStore(), RemoveChain{ID: "nope"})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("err = %v, want UnknownEntity", err)
	}
}

func TestRemoveChainPreservesOrderOfOthers(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "a", "cosmos")
	s = seedChain(t, s, "c2", "b", "cosmos")
	s = seedChain(t, s, "c3", "c", "cosmos")
	s = mustReduce(t, s, RemoveChain{ID: "c2"})
	chains := s.Chains()
	if len(chains) != 2 || chains[0].ID != "c1" || chains[1].ID != "c3" {
		t.Fatalf("chains after remove = %v", chains)
	}
}

// ---------------------------------------------------------------------------
// UpdateChain
// ---------------------------------------------------------------------------

func TestUpdateChainMergesFields(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "old", "cosmos")
	name := "new"
	s = mustReduce(t, s, UpdateChain{ID: "c1", Patch: ChainPatch{Name: &name}})
	c, _ := s.Chain("c1")
	if c.Name != "new" || c.Type != "cosmos" {
		t.Errorf("chain after update = %+v", c)
	}
}

func TestUpdateChainIdempotent(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "old", "cosmos")
	name := "X"
	once := mustReduce(t, s, UpdateChain{ID: "c1", Patch: ChainPatch{Name: &name}})
	twice := mustReduce(t, once, UpdateChain{ID: "c1", Patch: ChainPatch{Name: &name}})
	if !reflect.DeepEqual(once.Chains(), twice.Chains()) {
		t.Errorf("second identical update changed the store:\nonce:  %+v\ntwice: %+v", once.Chains(), twice.Chains())
	}
}

func TestUpdateChainUnknownIDRejected(t *testing.T) {
	name := "x"
	_, err := Reduce(NewStore(), UpdateChain{ID: "missing", Patch: ChainPatch{Name: &name}})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("err = %v, want UnknownEntity", err)
	}
}

func TestUpdateChainNameCollisionRejected(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "a", "cosmos")
	s = seedChain(t, s, "c2", "b", "cosmos")
	name := "a"
	_, err := Reduce(s, UpdateChain{ID: "c2", Patch: ChainPatch{Name: &name}})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want DuplicateIdentity", err)
	}
}

func TestUpdateChainRenameToOwnNameAllowed(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "a", "cosmos")
	name := "a"
	if _, err := Reduce(s, UpdateChain{ID: "c1", Patch: ChainPatch{Name: &name}}); err != nil {
		t.Fatalf("self-rename rejected: %v", err)
	}
}

func TestUpdateChainReplacesChannelsWholesale(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "a", "cosmos")
	s = mustReduce(t, s, UpdateChain{ID: "c1", Patch: ChainPatch{
		Channels: []Channel{{Kind: "telegram", Target: "@ops"}, {Kind: "slack", Target: "#alerts"}},
	}})
	s = mustReduce(t, s, UpdateChain{ID: "c1", Patch: ChainPatch{
		Channels: []Channel{{Kind: "email", Target: "ops@example.com"}},
	}})
	c, _ := s.Chain("c1")
	if len(c.Channels) != 1 || c.Channels[0].Kind != "email" {
		t.Errorf("channels = %v, want single email channel", c.Channels)
	}
}

// ---------------------------------------------------------------------------
// AddNode / AddRepository
// ---------------------------------------------------------------------------

func TestAddNodePreservesInsertionOrder(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "val1", Endpoint: "a:26657"}})
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n2", Name: "val2", Endpoint: "b:26657"}})
	c, _ := s.Chain("c1")
	if len(c.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(c.Nodes))
	}
	if c.Nodes[0].ID != "n1" || c.Nodes[1].ID != "n2" {
		t.Errorf("node order = [%s %s], want [n1 n2]", c.Nodes[0].ID, c.Nodes[1].ID)
	}
}

func TestAddNodeDuplicateIDWithinChainRejected(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "v", Endpoint: "a:1"}})
	_, err := Reduce(s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "w", Endpoint: "b:2"}})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want DuplicateIdentity", err)
	}
}

func TestScenarioChainNodeRepository(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "val", Endpoint: "host:26657"}})
	s = mustReduce(t, s, AddRepository{ChainID: "c1", Repository: Repository{ID: "r1", URL: "github.com/cosmos/gaia", Monitor: true}})

	chains := s.Chains()
	if len(chains) != 1 {
		t.Fatalf("store has %d chains, want 1", len(chains))
	}
	c := chains[0]
	if len(c.Nodes) != 1 || c.Nodes[0].ID != "n1" {
		t.Errorf("nodes = %v, want [n1]", c.Nodes)
	}
	if len(c.Repositories) != 1 || c.Repositories[0].ID != "r1" {
		t.Errorf("repositories = %v, want [r1]", c.Repositories)
	}
}

func TestScenarioDuplicateAddChainLeavesSingleChain(t *testing.T) {
	add := AddChain{ID: "c1", Name: "cosmos-1", Type: "cosmos"}
	s := mustReduce(t, NewStore(), add)
	next, err := Reduce(s, add)
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("second add: err = %v, want DuplicateIdentity", err)
	}
	if next.Len() != 1 {
		t.Errorf("store has %d chains, want exactly 1", next.Len())
	}
}

// ---------------------------------------------------------------------------
// Purity and closed vocabulary
// ---------------------------------------------------------------------------

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	before := s.Chains()

	s2 := mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "v", Endpoint: "a:1"}})
	s2 = mustReduce(t, s2, AddChain{ID: "c2", Name: "other", Type: "cosmos"})
	_ = s2

	after := s.Chains()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("input store mutated:\nbefore: %+v\nafter:  %+v", before, after)
	}
	if c, _ := s.Chain("c1"); len(c.Nodes) != 0 {
		t.Errorf("old store gained nodes: %v", c.Nodes)
	}
}

type bogusAction struct{}

func (bogusAction) Kind() string    { return "FROB_CHAIN" }
func (bogusAction) Validate() error { return nil }
func (bogusAction) isAction()       {}

func TestUnknownActionKindRejected(t *testing.T) {
	_, err := Reduce(NewStore(), bogusAction{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want UnknownAction", err)
	}
	_, err = Reduce(NewStore(), nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("nil action: err = %v, want UnknownAction", err)
	}
}

func TestActionStructuralValidation(t *testing.T) {
	cases := []struct {
		name   string
		action Action
	}{
		{"add chain missing name", AddChain{ID: "c1", Type: "cosmos"}},
		{"add node missing endpoint", AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "v"}}},
		{"add repository missing url", AddRepository{ChainID: "c1", Repository: Repository{ID: "r1"}}},
		{"remove chain missing id", RemoveChain{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reduce(NewStore(), tc.action)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("err = %v, want ValidationFailed", err)
			}
		})
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	s := seedChain(t, NewStore(), "c1", "cosmos-1", "cosmos")
	s = mustReduce(t, s, AddNode{ChainID: "c1", Node: Node{ID: "n1", Name: "v", Endpoint: "a:1", Monitor: true}})
	s = seedChain(t, s, "c2", "link", "chainlink")

	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Store
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(s.Chains(), restored.Chains()) {
		t.Errorf("round trip mismatch:\nin:  %+v\nout: %+v", s.Chains(), restored.Chains())
	}
}

package wizard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Export turns a finished store into the payload the provisioning
// backend consumes. The wire format here is structure-only JSON; the
// obligation is that exported entities satisfy the store invariants.

// Output is the serialized configuration document.
type Output struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	Chains      []Chain   `json:"chains"`
}

const outputVersion = 1

// Export verifies invariants and builds the output document.
func Export(s Store) (Output, error) {
	if err := CheckInvariants(s); err != nil {
		return Output{}, err
	}
	return Output{
		Version:     outputVersion,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Chains:      s.Chains(),
	}, nil
}

// WriteOutput exports the store and writes it as indented JSON,
// creating parent directories as needed.
func WriteOutput(s Store, path string) error {
	out, err := Export(s)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// CheckInvariants verifies the store is fit for export: unique chain
// ids, unique (name, type) pairs, and unique node/repository ids
// within each owning chain. A reducer-built store always passes; this
// guards restored or hand-assembled stores.
func CheckInvariants(s Store) error {
	seenName := map[string]string{} // type+"\x00"+lower(name) -> chain id
	for _, c := range s.Chains() {
		if c.ID == "" {
			return &ValidationError{Fields: map[string]string{"chain.id": "empty chain id"}}
		}
		if c.Name == "" || c.Type == "" {
			return &ValidationError{Fields: map[string]string{
				"chain": fmt.Sprintf("chain %q missing name or type", c.ID),
			}}
		}
		nameKey := c.Type + "\x00" + strings.ToLower(c.Name)
		if _, ok := seenName[nameKey]; ok {
			return &DuplicateIdentityError{Field: "name", Value: c.Name, ChainType: c.Type}
		}
		seenName[nameKey] = c.ID

		nodeIDs := map[string]bool{}
		for _, n := range c.Nodes {
			if n.ID == "" {
				return &ValidationError{Fields: map[string]string{"node.id": fmt.Sprintf("chain %q has a node with empty id", c.ID)}}
			}
			if nodeIDs[n.ID] {
				return &DuplicateIdentityError{Field: "id", Value: n.ID}
			}
			nodeIDs[n.ID] = true
		}
		repoIDs := map[string]bool{}
		for _, r := range c.Repositories {
			if r.ID == "" {
				return &ValidationError{Fields: map[string]string{"repository.id": fmt.Sprintf("chain %q has a repository with empty id", c.ID)}}
			}
			if repoIDs[r.ID] {
				return &DuplicateIdentityError{Field: "id", Value: r.ID}
			}
			repoIDs[r.ID] = true
		}
	}
	return nil
}

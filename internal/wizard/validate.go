package wizard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Structural validation for step forms. Everything here is checkable
// without a network or a rendered UI; semantic validation against a
// live chain is out of scope.

// FieldErrors maps field names to messages. An empty map means the
// step is valid.
type FieldErrors map[string]string

// ValidateChainBasics checks the NAME step fields against the
// workflow table. Name uniqueness is the store's job at dispatch time.
func ValidateChainBasics(ws *WorkflowSet, name, chainType string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "chain name is required"
	}
	t := strings.ToLower(strings.TrimSpace(chainType))
	if t == "" {
		errs["type"] = "chain type is required"
	} else if _, ok := ws.Lookup(t); !ok {
		msg := fmt.Sprintf("unknown chain type %q", chainType)
		if suggestion := closestMatch(t, ws.Types()); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		errs["type"] = msg
	}
	return errs
}

// ValidateNode checks the NODES step fields.
func ValidateNode(name, endpoint string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "node name is required"
	}
	if strings.TrimSpace(endpoint) == "" {
		errs["endpoint"] = "node endpoint is required"
	} else if !looksLikeURL(endpoint) {
		errs["endpoint"] = "node endpoint must be a host or URL"
	}
	return errs
}

// ValidateRepository checks the REPOSITORIES step fields.
func ValidateRepository(repoURL string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(repoURL) == "" {
		errs["url"] = "repository url is required"
	}
	return errs
}

// ValidateChannel checks one CHANNELS step entry against the kinds
// legal for the chain type.
func ValidateChannel(ws *WorkflowSet, chainType, kind, target string) FieldErrors {
	errs := FieldErrors{}
	k := strings.ToLower(strings.TrimSpace(kind))
	legal := ws.ChannelKindsFor(chainType)
	if k == "" {
		errs["kind"] = "channel kind is required"
	} else if !contains(legal, k) {
		msg := fmt.Sprintf("channel kind %q not available for %s chains", kind, chainType)
		if suggestion := closestMatch(k, legal); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		errs["kind"] = msg
	}
	if strings.TrimSpace(target) == "" {
		errs["target"] = "channel target is required"
	}
	return errs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// closestMatch returns the candidate within edit distance 3, or "".
func closestMatch(input string, candidates []string) string {
	best, bestDist := "", 4
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(input, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// looksLikeURL accepts bare host:port as well as full URLs; node
// endpoints come in both shapes.
func looksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		return err == nil && u.Host != ""
	}
	return !strings.ContainsAny(s, " \t")
}

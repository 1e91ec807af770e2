package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-xhs-note-automation/internal/oracle"
)

// RelevanceFilter reduces a page's candidate titles to the subset the
// oracle judges related to the promotion target. One batched call per
// page keeps the oracle call count at O(pages), not O(titles).
type RelevanceFilter struct {
	oracle oracle.Client
}

func NewRelevanceFilter(c oracle.Client) *RelevanceFilter {
	return &RelevanceFilter{oracle: c}
}

// Filter classifies candidates against the run's promotion target and
// records the relevant subset into the run state. Oracle responses are
// untrusted free text: the output is re-validated so every accepted
// title is genuinely one of the candidates.
func (f *RelevanceFilter) Filter(ctx context.Context, st *RunState, candidates []string) ([]string, error) {
	// a call with no candidates or no target is guaranteed useless,
	// fail before spending a network round-trip
	if len(candidates) == 0 {
		return nil, &OracleError{Err: fmt.Errorf("no candidate titles to classify")}
	}
	if strings.TrimSpace(st.Target()) == "" {
		return nil, &OracleError{Err: fmt.Errorf("promotion target is empty")}
	}

	raw, err := f.oracle.Classify(ctx, candidates, st.Target())
	if err != nil {
		return nil, &OracleError{Err: err}
	}

	titles, err := parseTitleArray(raw)
	if err != nil {
		return nil, &OracleError{Raw: raw, Err: err}
	}

	known := mapset.NewThreadUnsafeSet(candidates...)
	relevant := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if !known.Contains(title) {
			log.Printf("⚠️ Dropping hallucinated title from oracle: %q", title)
			continue
		}
		// guard against the oracle repeating itself
		known.Remove(title)
		relevant = append(relevant, title)
	}

	st.SetRelevant(relevant)
	log.Printf("🎯 Relevance: %d/%d titles related to %q", len(relevant), len(candidates), st.Target())
	return relevant, nil
}

// parseTitleArray pulls a JSON string array out of a free-text oracle
// response. Models wrap output in prose or code fences, so it takes the
// first '[' ... last ']' span; anything beyond that is not repaired.
func parseTitleArray(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in oracle response")
	}

	var titles []string
	if err := json.Unmarshal([]byte(s[start:end+1]), &titles); err != nil {
		return nil, fmt.Errorf("failed to parse oracle title array: %w", err)
	}
	return titles, nil
}

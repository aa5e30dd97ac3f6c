package middleware

import (
	"context"
	"regexp"

	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
)

type piiMiddleware struct {
	next     ports.ResponseStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers of blocks whose ID
// matches one of the patterns, including their conversation transcripts.
// The form author names blocks ("email", "ssn", ...); the patterns follow
// that naming.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ResponseStore) ports.ResponseStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

const mask = "***"

func (m *piiMiddleware) Save(ctx context.Context, responseID string, state *domain.ResponseState) error {
	// Deep clone first: the engine keeps using the in-memory state.
	cloned := state.Clone()

	for blockID := range cloned.Answers {
		if !m.matches(blockID) {
			continue
		}
		cloned.Answers[blockID] = mask
		if conv, ok := cloned.Conversations[blockID]; ok {
			for i := range conv.Entries {
				conv.Entries[i].Answer = mask
			}
		}
	}

	return m.next.Save(ctx, responseID, cloned)
}

func (m *piiMiddleware) matches(blockID string) bool {
	for _, p := range m.patterns {
		if p.MatchString(blockID) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	return m.next.Load(ctx, responseID)
}

func (m *piiMiddleware) Delete(ctx context.Context, responseID string) error {
	return m.next.Delete(ctx, responseID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

package middleware

import (
	"context"
	"fmt"
	"maps"
	"regexp"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// Mask replaces redacted answer values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.ProjectStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks the recorded answers whose key matches one of the patterns,
// e.g. "^author$" or "_url$". The record summary fields are stored as is.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ProjectStore) ports.ProjectStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, rec *domain.ProjectRecord) error {
	// The caller keeps its unmasked record.
	cloned := *rec
	cloned.Answers = maps.Clone(rec.Answers)
	for k := range cloned.Answers {
		if m.matches(k) {
			cloned.Answers[k] = Mask
		}
	}
	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

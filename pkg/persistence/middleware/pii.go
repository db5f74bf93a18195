package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
)

// Mask replaces the value of every redacted key.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks, on save, the values of
// state keys matching any of the patterns. Nested maps are masked too.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, domain.ErrInvalidConfig)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, tableID string, state domain.State) error {
	// Masking works on a deep copy; the caller's state is live table state.
	masked := domain.State(deepCopyMap(state))
	maskMap(masked, m.patterns)
	return m.next.Save(ctx, tableID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, tableID string) (domain.State, error) {
	return m.next.Load(ctx, tableID)
}

func (m *piiMiddleware) Delete(ctx context.Context, tableID string) error {
	return m.next.Delete(ctx, tableID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch sub := v.(type) {
		case map[string]any:
			out[k] = deepCopyMap(sub)
		case map[string]bool:
			copied := make(map[string]bool, len(sub))
			for sk, sv := range sub {
				copied[sk] = sv
			}
			out[k] = copied
		default:
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if matches(k, patterns) {
			m[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
		}
	}
}

func matches(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

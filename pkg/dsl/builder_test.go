package dsl

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct{ id string }

func (s step) ID() string                                               { return s.id }
func (s step) TranslationKey() string                                   { return s.id }
func (s step) Fields() []domain.Field                                   { return nil }
func (s step) OnEnter(context.Context, *domain.Store, domain.Scheduler) {}
func (s step) OnExit(*domain.Store) error                               { return nil }
func (s step) Validate(*domain.Store) map[string]string                 { return nil }

func factory(id string) domain.StepFactory {
	return func() domain.WizardStep { return step{id: id} }
}

func TestBuilder_LinearFallback(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d steps", n), func(t *testing.T) {
			b := New()
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("s%d", i+1)
				b.Add(ids[i], factory(ids[i]))
			}
			g, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, "s1", g.FirstStep())

			stores := []*domain.Store{
				domain.NewStore(),
				domain.NewStoreFrom(map[string]any{"license": "custom", "x": 1}),
			}
			for _, s := range stores {
				for i := 0; i+1 < n; i++ {
					next, ok := g.NextStep(ids[i], s)
					require.True(t, ok)
					assert.Equal(t, ids[i+1], next)
				}
				_, ok := g.NextStep(ids[n-1], s)
				assert.False(t, ok)
			}
		})
	}
}

func TestBuilder_ConditionalBeforeLinear(t *testing.T) {
	license := domain.NewKey[string]("license")

	b := New()
	b.Add("license", factory("license")).
		Branch(func(s *domain.Store) bool { return domain.GetOr(s, license, "") == "custom" }, "license_custom").
		Go("git")
	b.Add("license_custom", factory("license_custom"))
	b.Add("git", factory("git"))

	g, err := b.Build()
	require.NoError(t, err)

	s := domain.NewStore()
	next, _ := g.NextStep("license", s)
	assert.Equal(t, "git", next)

	domain.Set(s, license, "custom")
	next, _ = g.NextStep("license", s)
	assert.Equal(t, "license_custom", next)

	next, _ = g.NextStep("license_custom", s)
	assert.Equal(t, "git", next)
}

func TestBuilder_ExplicitPairIsNotDuplicated(t *testing.T) {
	never := func(*domain.Store) bool { return false }

	b := New()
	b.Add("a", factory("a"))
	b.Add("b", factory("b"))
	b.When("a", "b", never)

	g, err := b.Build()
	require.NoError(t, err)

	// The guarded a->b exists, so no unconditional one is synthesized.
	assert.Len(t, g.TransitionsFrom("a"), 1)
	_, ok := g.NextStep("a", domain.NewStore())
	assert.False(t, ok)
}

func TestBuilder_RemoveAndQueries(t *testing.T) {
	b := New()
	b.Add("a", factory("a")).Go("c")
	b.Add("b", factory("b")).Go("c")
	b.Add("c", factory("c"))

	assert.Len(t, b.TransitionsTo("c"), 2)
	b.Remove("a", "c")
	assert.Empty(t, b.TransitionsFrom("a"))
	assert.Len(t, b.TransitionsTo("c"), 1)

	g, err := b.Build()
	require.NoError(t, err)
	next, _ := g.NextStep("a", domain.NewStore())
	assert.Equal(t, "b", next)
}

func TestBuilder_FirstOverride(t *testing.T) {
	b := New()
	b.Add("a", factory("a"))
	b.Add("b", factory("b"))
	b.First("b")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "b", g.FirstStep())
}

func TestBuilder_RejectsInvalidGraphs(t *testing.T) {
	t.Run("Dangling", func(t *testing.T) {
		b := New()
		b.Add("a", factory("a")).Go("missing")
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrDanglingTransition)
	})

	t.Run("Duplicate", func(t *testing.T) {
		b := New()
		b.Add("a", factory("a"))
		b.Add("a", factory("a"))
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrDuplicateStep)
	})

	t.Run("Duplicate Without Factory", func(t *testing.T) {
		b := New()
		b.Add("a", nil)
		b.Add("a", nil)
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrDuplicateStep)
		assert.ErrorIs(t, err, domain.ErrUnknownStep, "the missing factory is reported too")
		var invalid *domain.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.ErrorIs(t, invalid.Problems[0], domain.ErrDuplicateStep)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := New().Build()
		assert.ErrorIs(t, err, domain.ErrUnknownStep)
	})
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRuleGroup(t *testing.T) {
	tests := []struct {
		name         string
		rules        []model.CompartmentRule
		available    model.ShippingUnits
		wantOK       bool
		wantCovered  model.ShippingUnits
		wantLeftover model.ShippingUnits
	}{
		{
			name:         "AND rule consumes its quantity",
			rules:        []model.CompartmentRule{andRule("r1", "c1", "su-s", 2)},
			available:    unitsOf(small(3), medium(1)),
			wantOK:       true,
			wantCovered:  unitsOf(small(2)),
			wantLeftover: unitsOf(small(1), medium(1)),
		},
		{
			name: "every AND rule must be met",
			rules: []model.CompartmentRule{
				andRule("r1", "c1", "su-s", 1),
				andRule("r2", "c1", "su-l", 1),
			},
			available: unitsOf(small(1)),
			wantOK:    false,
		},
		{
			name: "alternative stands in for an unmet AND rule",
			rules: []model.CompartmentRule{
				andRule("r1", "c1", "su-l", 1),
				altRule("r2", "c1", "r1", "su-m", 2),
			},
			available:    unitsOf(medium(2)),
			wantOK:       true,
			wantCovered:  unitsOf(medium(2)),
			wantLeftover: model.ShippingUnits{},
		},
		{
			name: "alternative is not used when the AND rule is met",
			rules: []model.CompartmentRule{
				andRule("r1", "c1", "su-l", 1),
				altRule("r2", "c1", "r1", "su-m", 1),
			},
			available:    unitsOf(large(1), medium(1)),
			wantOK:       true,
			wantCovered:  unitsOf(large(1)),
			wantLeftover: unitsOf(medium(1)),
		},
		{
			name: "first affordable OR rule by sort order",
			rules: []model.CompartmentRule{
				orRule("r1", "c1", "su-m", 1, 2),
				orRule("r2", "c1", "su-s", 1, 1),
			},
			available:    unitsOf(small(1), medium(1)),
			wantOK:       true,
			wantCovered:  unitsOf(small(1)),
			wantLeftover: unitsOf(medium(1)),
		},
		{
			name: "OR group fails when no rule is affordable",
			rules: []model.CompartmentRule{
				orRule("r1", "c1", "su-m", 2, 1),
				orRule("r2", "c1", "su-l", 1, 2),
			},
			available: unitsOf(small(4), medium(1)),
			wantOK:    false,
		},
		{
			name: "AND and OR rules combine",
			rules: []model.CompartmentRule{
				andRule("r1", "c1", "su-s", 2),
				orRule("r2", "c1", "su-l", 1, 1),
				orRule("r3", "c1", "su-m", 1, 2),
			},
			available:    unitsOf(small(2), medium(3)),
			wantOK:       true,
			wantCovered:  unitsOf(small(2), medium(1)),
			wantLeftover: unitsOf(medium(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			covered, leftover, ok := EvaluateRuleGroup(tt.rules, tt.available)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCovered, covered)
			assert.Equal(t, tt.wantLeftover, leftover)
		})
	}
}

func TestEvaluateRuleGroup_DoesNotMutateInput(t *testing.T) {
	available := unitsOf(small(3))

	_, _, ok := EvaluateRuleGroup([]model.CompartmentRule{andRule("r1", "c1", "su-s", 2)}, available)

	require.True(t, ok)
	assert.Equal(t, 3, available.Quantity("su-s"))
}

func TestRuleSet_Match(t *testing.T) {
	containers := []model.Container{
		box("small", "BOX-S", 80, 1000),
		box("large", "BOX-L", 40, 5000),
		box("unruled", "BOX-U", 50, 2000),
	}
	groupTwo := andRule("r3", "large", "su-m", 1)
	groupTwo.RuleGroup = 2
	rules := []model.CompartmentRule{
		andRule("r1", "small", "su-s", 2),
		andRule("r2", "large", "su-s", 4),
		groupTwo,
	}

	rs := NewRuleSet(containers, rules)

	t.Run("one match per satisfiable group", func(t *testing.T) {
		matches := rs.Match(unitsOf(small(2), medium(1)))

		require.Len(t, matches, 2)
		assert.Equal(t, "small", matches[0].ContainerID)
		assert.Equal(t, "BOX-S", matches[0].CostSKU)
		assert.Equal(t, 80, matches[0].SpecificityScore)
		assert.Equal(t, 1.5, matches[0].TotalCost)
		assert.Equal(t, unitsOf(medium(1)), matches[0].LeftoverUnits)

		assert.Equal(t, "large", matches[1].ContainerID)
		assert.Equal(t, 2, matches[1].RuleGroup)
		assert.False(t, matches[1].IsPerfect())
	})

	t.Run("empty units", func(t *testing.T) {
		assert.Nil(t, rs.Match(model.ShippingUnits{}))
	})

	t.Run("nil rule set", func(t *testing.T) {
		var empty *RuleSet
		assert.Nil(t, empty.Match(unitsOf(small(1))))
	})
}

func TestCompartmentMatcher_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("loads rules of advice containers", func(t *testing.T) {
		store := new(mocks.MockRuleStore)
		store.On("ListAdviceContainers", ctx).Return([]model.Container{box("small", "BOX-S", 80, 1000)}, nil)
		store.On("ActiveRules", ctx, []string{"small"}).Return([]model.CompartmentRule{andRule("r1", "small", "su-s", 1)}, nil)

		matches, err := NewCompartmentMatcher(store).Match(ctx, unitsOf(small(1)))

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.True(t, matches[0].IsPerfect())
		store.AssertExpectations(t)
	})

	t.Run("no containers skips the rule lookup", func(t *testing.T) {
		store := new(mocks.MockRuleStore)
		store.On("ListAdviceContainers", ctx).Return([]model.Container{}, nil)

		rs, err := NewCompartmentMatcher(store).Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, rs.Match(unitsOf(small(1))))
		store.AssertNotCalled(t, "ActiveRules", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(mocks.MockRuleStore)
		store.On("ListAdviceContainers", ctx).Return(nil, errors.New("connection refused"))

		_, err := NewCompartmentMatcher(store).Load(ctx)

		assert.ErrorContains(t, err, "load containers")
	})
}

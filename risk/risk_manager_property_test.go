package risk

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: position sizing never shrinks when the account grows, all
// other profile fields held fixed.
func TestProperty_PositionSizeMonotonicInBalance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(1)

	properties := gopter.NewProperties(parameters)

	history := trades(-1, -1, 2, 2, 2)
	sizeFor := func(balance float64) float64 {
		profile := testProfile()
		profile.AccountBalance = balance
		manager, err := NewRiskManager(profile, history)
		if err != nil {
			t.Fatal(err)
		}
		return manager.CalculatePositionSize(0.15)
	}

	properties.Property("larger balance never sizes smaller", prop.ForAll(
		func(smaller float64, larger float64) bool {
			if smaller > larger {
				smaller, larger = larger, smaller
			}
			return sizeFor(larger) >= sizeFor(smaller)
		},
		gen.Float64Range(100, 1e7),
		gen.Float64Range(100, 1e7),
	))

	properties.Property("size never exceeds a tenth of the account", prop.ForAll(
		func(balance float64, budget float64) bool {
			profile := testProfile()
			profile.AccountBalance = balance
			manager, err := NewRiskManager(profile, history)
			if err != nil {
				return false
			}
			size := manager.CalculatePositionSize(budget)
			return size >= 0 && size <= balance*0.1
		},
		gen.Float64Range(100, 1e7),
		gen.Float64Range(-1, 1),
	))

	properties.TestingRun(t)
}

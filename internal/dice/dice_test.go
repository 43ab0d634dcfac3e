package dice_test

import (
	"testing"

	"github.com/samdwyer/barquest/internal/dice"
	mockdice "github.com/samdwyer/barquest/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestBetween(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := mockdice.NewMockRoller(ctrl)
	r.EXPECT().Float64().Return(0.5)

	assert.Equal(t, 15.0, dice.Between(r, 10, 20))
	// equal bounds never consume a roll
	assert.Equal(t, 10.0, dice.Between(r, 10, 10))
}

func TestIntBetweenInclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := mockdice.NewMockRoller(ctrl)
	r.EXPECT().IntN(2).Return(1)

	assert.Equal(t, 3, dice.IntBetween(r, 2, 3))
}

func TestChanceBounds(t *testing.T) {
	r := mockdice.NewFixedRoller(0.5)
	assert.False(t, dice.Chance(r, 0))
	assert.True(t, dice.Chance(r, 1))
	assert.True(t, dice.Chance(r, 0.6))
	assert.False(t, dice.Chance(r, 0.4))
	assert.True(t, dice.Percent(r, 60))
}

func TestShuffleKeepsElements(t *testing.T) {
	r := dice.NewRandomRoller(42)
	s := []int{1, 2, 3, 4, 5, 6}
	dice.Shuffle(r, s)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, s)
}

func TestWeighted(t *testing.T) {
	r := mockdice.NewFixedRoller(0.7)
	// total 10, roll 7 lands in the third bucket
	assert.Equal(t, 2, dice.Weighted(r, []float64{3, 0, 7}))
	assert.Equal(t, -1, dice.Weighted(r, []float64{0, -1}))
}

func TestRandomRollerRanges(t *testing.T) {
	r := dice.NewRandomRoller(7)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		n := r.IntN(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)
	}
	assert.Equal(t, 0, r.IntN(0))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayer(id string, resources map[string]int) *Player {
	if resources == nil {
		resources = make(map[string]int)
	}
	return &Player{ID: id, Name: id, Resources: resources, Workers: 2, PlacedWorkers: map[string]int{}}
}

func TestGrantResourceAccumulates(t *testing.T) {
	p := newPlayer("p1", nil)
	GrantResource(p, "gold", 2)
	GrantResource(p, "gold", 3)
	assert.Equal(t, 5, p.Resources["gold"])
}

func TestGrantResourceNilMap(t *testing.T) {
	p := &Player{ID: "p1"}
	GrantResource(p, "gold", 1)
	assert.Equal(t, 1, p.Resources["gold"])
}

func TestLoseResourceFloorsAtZero(t *testing.T) {
	p := newPlayer("p1", map[string]int{"gold": 2})
	LoseResource(p, "gold", 5)
	assert.Equal(t, 0, p.Resources["gold"])
}

func TestTransferResource(t *testing.T) {
	t.Run("moves the amount", func(t *testing.T) {
		from := newPlayer("p1", map[string]int{"gold": 3})
		to := newPlayer("p2", nil)
		require.Nil(t, TransferResource(from, to, "gold", 2))
		assert.Equal(t, 1, from.Resources["gold"])
		assert.Equal(t, 2, to.Resources["gold"])
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		from := newPlayer("p1", map[string]int{"gold": 3})
		to := newPlayer("p2", nil)
		for _, amount := range []int{0, -1} {
			err := TransferResource(from, to, "gold", amount)
			require.NotNil(t, err)
			assert.Equal(t, CodeInvalidAmount, err.Code)
		}
		assert.Equal(t, 3, from.Resources["gold"])
		assert.Equal(t, 0, to.Resources["gold"])
	})

	t.Run("leaves both balances untouched on insufficient funds", func(t *testing.T) {
		from := newPlayer("p1", map[string]int{"gold": 1})
		to := newPlayer("p2", nil)
		err := TransferResource(from, to, "gold", 2)
		require.NotNil(t, err)
		assert.Equal(t, CodeInsufficientResources, err.Code)
		assert.Equal(t, 1, err.Available)
		assert.Equal(t, 1, from.Resources["gold"])
		assert.Equal(t, 0, to.Resources["gold"])
	})
}

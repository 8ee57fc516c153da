package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronwallet/walletgo/server/jsonrpc"
)

func TestNodeSelector_RoundRobin(t *testing.T) {
	_, err := NewNodeSelector()
	assert.Error(t, err)

	sel, err := NewNodeSelector("a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Current())
	assert.Equal(t, "b", sel.Next())
	assert.Equal(t, "c", sel.Next())
	assert.Equal(t, "a", sel.Next())
	assert.Equal(t, "a", sel.Current())
}

func TestNodeSelector_SelectByWitness(t *testing.T) {
	witnesses := []jsonrpc.Witness{
		{URL: "http://w1", TotalMissed: 10},
		{URL: "http://w2", TotalMissed: 2},
		{URL: "http://w3", TotalMissed: 5},
	}

	t.Run("KnownNode", func(t *testing.T) {
		sel, _ := NewNodeSelector("n1", "n2")
		node, ok := sel.SelectByWitness(witnesses, map[string]string{
			"http://w1": "n1",
			"http://w2": "n2",
		})
		assert.True(t, ok)
		assert.Equal(t, "n2", node)
		assert.Equal(t, "n2", sel.Current())
	})

	t.Run("NewNode", func(t *testing.T) {
		sel, _ := NewNodeSelector("n1")
		node, ok := sel.SelectByWitness(witnesses, map[string]string{"http://w2": "n9"})
		assert.True(t, ok)
		assert.Equal(t, "n9", node)
		assert.Equal(t, []string{"n1", "n9"}, sel.Candidates)
		assert.Equal(t, "n1", sel.Next())
	})

	t.Run("BestWitnessUnmapped", func(t *testing.T) {
		sel, _ := NewNodeSelector("n1")
		_, ok := sel.SelectByWitness(witnesses, map[string]string{"http://w1": "n2"})
		assert.False(t, ok)
		assert.Equal(t, "n1", sel.Current())
	})

	t.Run("NoWitness", func(t *testing.T) {
		sel, _ := NewNodeSelector("n1")
		_, ok := sel.SelectByWitness(nil, map[string]string{"http://w1": "n2"})
		assert.False(t, ok)
	})
}

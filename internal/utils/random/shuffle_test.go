package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleKeepsElements(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	got := append([]string(nil), in...)
	require.NoError(t, Shuffle(got))
	assert.ElementsMatch(t, in, got)
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	require.NoError(t, Shuffle([]int{}))

	one := []int{42}
	require.NoError(t, Shuffle(one))
	assert.Equal(t, []int{42}, one)
}

func TestPick(t *testing.T) {
	_, err := Pick([]string{})
	assert.Error(t, err)

	v, err := Pick([]string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	in := []string{"a", "b", "c"}
	v, err = Pick(in)
	require.NoError(t, err)
	assert.Contains(t, in, v)
}

func TestToken(t *testing.T) {
	tok, err := Token(4)
	require.NoError(t, err)
	assert.Len(t, tok, 8)
	assert.Regexp(t, "^[0-9A-F]+$", tok)

	other, err := Token(4)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

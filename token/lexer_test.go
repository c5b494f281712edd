package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(s Stream) []Kind {
	out := make([]Kind, len(s))
	for i, t := range s {
		out[i] = t.Kind
	}
	return out
}

func TestParseSignificantCharsOnly(t *testing.T) {
	s, err := Parse("t.bf", "hello +[world]- \n\tworld")
	require.NoError(t, err)
	assert.Equal(t, []Kind{Inc, LoopOpen, LoopClose, Dec}, kinds(s))
}

func TestParseNestedLoops(t *testing.T) {
	s, err := Parse("t.bf", "[>[-]<-]")
	require.NoError(t, err)
	assert.Equal(t, []Kind{
		LoopOpen, Right, LoopOpen, Dec, LoopClose, Left, Dec, LoopClose,
	}, kinds(s))
}

func TestParseUnbalancedOpenIsError(t *testing.T) {
	_, err := Parse("t.bf", "[->+<")
	assert.Error(t, err)
}

func TestParseUnbalancedCloseIsError(t *testing.T) {
	_, err := Parse("t.bf", "->+<]")
	assert.Error(t, err)
}

func TestParseEmptyProgram(t *testing.T) {
	s, err := Parse("t.bf", "just a comment here with no BF ops")
	require.NoError(t, err)
	assert.Empty(t, s)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariation(t *testing.T) {
	v, err := parseVariation("safer=bet:100, payoff:3,win-rate:45,max_rounds:500,seed:9")
	require.NoError(t, err)
	assert.Equal(t, "safer", v.name)
	require.NotNil(t, v.overrides.BetAmount)
	assert.Equal(t, 100.0, *v.overrides.BetAmount)
	assert.Equal(t, 3.0, *v.overrides.PayoffMultiplier)
	assert.Equal(t, 45.0, *v.overrides.WinRate)
	assert.Equal(t, 500, *v.overrides.MaxRounds)
	assert.Equal(t, uint64(9), *v.overrides.Seed)
	assert.Nil(t, v.overrides.TargetBalance)
}

func TestParseVariation_Errors(t *testing.T) {
	for _, s := range []string{
		"",
		"noequals",
		"=bet:100",
		"x=",
		"x=bet",
		"x=bet:abc",
		"x=colour:red",
		"x=max_rounds:1.5",
	} {
		_, err := parseVariation(s)
		assert.Error(t, err, s)
	}
}

func TestParseVariations_RejoinsSplitPairs(t *testing.T) {
	vs, err := parseVariations([]string{"safer=bet:100", "payoff:3", "small=bet:50"})
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "safer", vs[0].name)
	assert.Equal(t, 3.0, *vs[0].overrides.PayoffMultiplier)
	assert.Equal(t, "small", vs[1].name)
	assert.Nil(t, vs[1].overrides.PayoffMultiplier)
}

func TestParseVariations_Duplicate(t *testing.T) {
	_, err := parseVariations([]string{"a=bet:100", "a=bet:200"})
	require.Error(t, err)

	vs, err := parseVariations([]string{"a=bet:100", "b=bet:200"})
	require.NoError(t, err)
	assert.Len(t, vs, 2)
}

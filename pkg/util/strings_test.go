package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAsInteger(t *testing.T) {
	v, err := GetAsInteger("12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = GetAsInteger("3.0")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = GetAsInteger("3.5")
	assert.Error(t, err)

	_, err = GetAsInteger(2.5)
	assert.Error(t, err)
}

func TestGetAsFloat(t *testing.T) {
	v, err := GetAsFloat(" 1.75 ")
	require.NoError(t, err)
	assert.Equal(t, 1.75, v)

	_, err = GetAsFloat("UNKNOWN")
	assert.Error(t, err)

	_, err = GetAsFloat(true)
	assert.Error(t, err)
}

func TestGetAsString(t *testing.T) {
	s, err := GetAsString(-1.0)
	require.NoError(t, err)
	assert.Equal(t, "-1", s)

	s, err = GetAsString(2.33)
	require.NoError(t, err)
	assert.Equal(t, "2.33", s)
}

func TestRoundToDecimalPlaces(t *testing.T) {
	assert.Equal(t, 2.33, RoundToDecimalPlaces(7.0/3.0, 2))
	assert.Equal(t, 2.5, RoundToDecimalPlaces(2.5, 2))
	assert.Equal(t, 0.1235, RoundToDecimalPlaces(0.12345678, 4))
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 2.12, RoundHalfEven(2.125, 2))
	assert.Equal(t, 2.13, RoundToDecimalPlaces(2.125, 2))
	assert.Equal(t, 0.38, RoundHalfEven(0.375, 2))
	assert.Equal(t, 2.33, RoundHalfEven(7.0/3.0, 2))
	assert.Equal(t, -2.12, RoundHalfEven(-2.125, 2))
}

func TestFuzzyMatchScore(t *testing.T) {
	assert.Equal(t, 1.0, FuzzyMatchScore("Leverkusen", "Bayer 04 Leverkusen"))
	assert.Greater(t, FuzzyMatchScore("Leverkusen", "Bayer 04 Leverkusen"), FuzzyMatchScore("Freiburg", "Bayer 04 Leverkusen"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "season.csv")
	require.NoError(t, WriteFileAtomic(path, []byte("a,b\n")))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))
}

package promo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyKnownCode(t *testing.T) {
	e := NewEngine(DefaultRules())
	got, err := e.Apply(State{}, "WELCOME10")
	require.NoError(t, err)
	require.True(t, got.Applied)
	require.Equal(t, "WELCOME10", got.Code)
	require.EqualValues(t, 10, got.Percent)
	require.False(t, got.FreeDelivery)
}

func TestApplyNormalizesCase(t *testing.T) {
	e := NewEngine(DefaultRules())
	got, err := e.Apply(State{}, "  special25 ")
	require.NoError(t, err)
	require.Equal(t, "SPECIAL25", got.Code)
	require.EqualValues(t, 25, got.Percent)
}

func TestApplyUnknownCode(t *testing.T) {
	e := NewEngine(DefaultRules())
	_, err := e.Apply(State{}, "NOPE")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestApplyEmptyCode(t *testing.T) {
	e := NewEngine(DefaultRules())
	_, err := e.Apply(State{}, "   ")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestApplySameCodeTwice(t *testing.T) {
	e := NewEngine(DefaultRules())
	first, err := e.Apply(State{}, "WELCOME10")
	require.NoError(t, err)
	_, err = e.Apply(first, "welcome10")
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplyWhileActiveRejected(t *testing.T) {
	e := NewEngine(DefaultRules())
	first, err := e.Apply(State{}, "WELCOME10")
	require.NoError(t, err)

	// A different valid code must not displace the active one.
	got, err := e.Apply(first, "SPECIAL25")
	require.ErrorIs(t, err, ErrAlreadyApplied)
	require.Equal(t, first, got)

	// Even an unknown code reports the active promo, not an invalid code.
	_, err = e.Apply(first, "BOGUS")
	require.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApplyAfterRemove(t *testing.T) {
	e := NewEngine(DefaultRules())
	first, err := e.Apply(State{}, "WELCOME10")
	require.NoError(t, err)

	cleared := e.Remove(first)
	second, err := e.Apply(cleared, "FREESHIP")
	require.NoError(t, err)
	require.Equal(t, "FREESHIP", second.Code)
	require.EqualValues(t, 0, second.Percent)
	require.True(t, second.FreeDelivery)
}

func TestRemoveClearsState(t *testing.T) {
	e := NewEngine(DefaultRules())
	applied, err := e.Apply(State{}, "SPECIAL25")
	require.NoError(t, err)
	cleared := e.Remove(applied)
	require.False(t, cleared.Applied)
	require.Empty(t, cleared.Code)
}

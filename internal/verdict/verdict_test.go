package verdict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateFromFail(t *testing.T) {
	require.Equal(t, Pass, Update(Fail, Cov))
	require.Equal(t, WeakPass, Update(Fail, TooShort))
	require.Equal(t, Inconc, Update(Fail, LackObs))
	require.Equal(t, Fail, Update(Fail, Out))
}

func TestUpdateFromInconc(t *testing.T) {
	require.Equal(t, Pass, Update(Inconc, Cov))
	require.Equal(t, WeakPass, Update(Inconc, TooShort))
	require.Equal(t, Inconc, Update(Inconc, LackObs))
	require.Equal(t, Inconc, Update(Inconc, Out))
}

func TestUpdateFromWeakPass(t *testing.T) {
	require.Equal(t, Pass, Update(WeakPass, Cov))
	require.Equal(t, WeakPass, Update(WeakPass, TooShort))
	require.Equal(t, WeakPass, Update(WeakPass, LackObs))
	require.Equal(t, WeakPass, Update(WeakPass, Out))
}

func TestUpdateFromPassIsAbsorbing(t *testing.T) {
	for _, c := range []Coverage{Cov, TooShort, LackObs, Out} {
		require.Equal(t, Pass, Update(Pass, c))
	}
}

func TestUpdateNeverDowngrades(t *testing.T) {
	order := []Global{Fail, Inconc, WeakPass, Pass}
	coverages := []Coverage{Cov, TooShort, LackObs, Out}
	for _, g := range order {
		for _, c := range coverages {
			require.GreaterOrEqual(t, int(Update(g, c)), int(g))
		}
	}
}

func TestAtLeast(t *testing.T) {
	require.True(t, AtLeast(Pass, WeakPass))
	require.True(t, AtLeast(WeakPass, WeakPass))
	require.False(t, AtLeast(Inconc, WeakPass))
	require.False(t, AtLeast(Fail, Pass))
}

package match_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-boxon/boxon/match"
)

var matchers = []match.Matcher{match.KMP{}, match.ShiftOr{}, match.RabinKarp{}}

// TestPatternMatcherParity is scenario 6: searching for the hex-digit
// pattern "0d0a" within the source built from two concatenated frame hex
// strings, every matcher returns index 68 (the hex-text offset given in the
// scenario, matching the matchers operating directly on the source bytes as
// given rather than on a decoded byte interpretation).
func TestPatternMatcherParity(t *testing.T) {
	frame := "2b41434b066f2446010a0311235e40035110420600ffff07e304050836390012" + "65b60d0a"
	source := []byte(frame + frame)
	pattern := []byte("0d0a")

	for _, m := range matchers {
		state := m.Preprocess(pattern)
		got := m.IndexOf(source, 0, pattern, state)
		require.Equal(t, 68, got, "%T", m)
	}
}

func TestEmptyPatternAlwaysMatchesAtZero(t *testing.T) {
	for _, m := range matchers {
		got := m.IndexOf([]byte("whatever"), 0, nil, m.Preprocess(nil))
		require.Equal(t, 0, got, "%T", m)
	}
}

func TestNoMatchReturnsNegativeOne(t *testing.T) {
	pattern := []byte("zzzz")
	for _, m := range matchers {
		got := m.IndexOf([]byte("the quick brown fox"), 0, pattern, m.Preprocess(pattern))
		require.Equal(t, -1, got, "%T", m)
	}
}

// TestRandomCorporaParity cross-validates all three matchers against
// thousands of random haystack/pattern pairs, asserting identical results.
func TestRandomCorporaParity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte("AB")
	for trial := 0; trial < 500; trial++ {
		haystack := randomBytes(rng, alphabet, rng.Intn(40))
		pattern := randomBytes(rng, alphabet, 1+rng.Intn(6))

		var want *int
		for _, m := range matchers {
			got := m.IndexOf(haystack, 0, pattern, m.Preprocess(pattern))
			if want == nil {
				want = &got
				continue
			}
			require.Equal(t, *want, got, "%T haystack=%q pattern=%q", m, haystack, pattern)
		}
	}
}

func randomBytes(rng *rand.Rand, alphabet []byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return out
}


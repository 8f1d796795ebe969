package match

// KMP implements the Knuth-Morris-Pratt algorithm: a failure function built
// once per pattern lets IndexOf skip re-comparing already-matched suffix
// characters on a mismatch, giving O(len(haystack)+len(pattern)) worst case.
type KMP struct{}

// Preprocess returns the pattern's failure function as a []int of the same
// length: failure[i] is the length of the longest proper prefix of
// pattern[:i+1] that is also a suffix of it.
func (KMP) Preprocess(pattern []byte) any {
	failure := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = failure[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		failure[i] = k
	}
	return failure
}

func (m KMP) IndexOf(haystack []byte, from int, pattern []byte, state any) int {
	if len(pattern) == 0 {
		return 0
	}
	if from < 0 {
		from = 0
	}
	failure, ok := state.([]int)
	if !ok || len(failure) != len(pattern) {
		failure = m.Preprocess(pattern).([]int)
	}
	k := 0
	for i := from; i < len(haystack); i++ {
		for k > 0 && haystack[i] != pattern[k] {
			k = failure[k-1]
		}
		if haystack[i] == pattern[k] {
			k++
		}
		if k == len(pattern) {
			return i - len(pattern) + 1
		}
	}
	return -1
}

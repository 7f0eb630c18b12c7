package match

// Similarity returns a bounded similarity ratio in [0, 1] between two
// strings using the Ratcliff/Obershelp matching-blocks measure:
// 2*M / (len(a)+len(b)), where M is the total length of non-overlapping
// matching substrings found greedily, longest first.
//
// Identical strings score 1.0. Two empty strings score 1.0 by convention;
// one empty string against a non-empty one scores 0.0.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	matched := matchingBlocks(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingBlocks returns the total matched length within the given regions,
// recursing on the unmatched stretches either side of the longest common
// block.
func matchingBlocks(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingBlocks(a, b, alo, i, blo, j)
	total += matchingBlocks(a, b, i+size, ahi, j+size, bhi)
	return total
}

// longestMatch finds the longest common block between a[alo:ahi] and
// b[blo:bhi]. Ties prefer the earliest block in a, then in b, which keeps
// the measure stable for equal inputs regardless of discovery order.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the longest run ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}

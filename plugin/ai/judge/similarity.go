package judge

// Ratio returns the sequence similarity of a and b in [0, 1]:
// 2*M/T where M counts characters in matching blocks and T is the total length.
// Matching blocks are found by recursively taking the longest common substring,
// leftmost in a and then in b, and recursing on both sides.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}
	matched := matchingChars(ra, b2j, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

func matchingChars(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b2j, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	n := k
	if alo < i && blo < j {
		n += matchingChars(a, b2j, alo, i, blo, j)
	}
	if i+k < ahi && j+k < bhi {
		n += matchingChars(a, b2j, i+k, ahi, j+k, bhi)
	}
	return n
}

func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
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

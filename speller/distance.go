package speller

// damerauLevenshtein computes the optimal-string-alignment Damerau-
// Levenshtein distance between a and b over Unicode scalars (insertions,
// deletions, substitutions, and adjacent transpositions all cost 1).
//
// No dependency in the retrieved pack provides this (a standalone
// Levenshtein-trie file exists only as reference material, not a fetchable
// module), so this is one of the deliberately hand-rolled stdlib pieces;
// the merge-penalty formula in casehandling.go needs only a distance, not a
// full alignment, so a small O(len(a)*len(b)) dynamic-programming table is
// sufficient.
func damerauLevenshtein(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}

			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := d[i-2][j-2] + cost; t < best {
					best = t
				}
			}

			d[i][j] = best
		}
	}

	return d[la][lb]
}

// damerauLevenshteinString is a string-argument convenience wrapper over
// damerauLevenshtein.
func damerauLevenshteinString(a, b string) int {
	return damerauLevenshtein([]rune(a), []rune(b))
}

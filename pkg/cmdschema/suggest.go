// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdschema

import "github.com/agnivade/levenshtein"

// maxSuggestDistance is the exclusive upper bound on the edit distance of a
// suggestion.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name by edit distance, if that
// distance is below maxSuggestDistance. Ties go to the earliest candidate.
func Suggest(name string, candidates []string) (string, bool) {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist >= maxSuggestDistance {
		return "", false
	}
	return best, true
}

package match

import (
	"sort"
)

// DefaultThreshold is the lowest score Closest accepts by default.
const DefaultThreshold = 0.8

// Candidate is a known name scored against the name being looked up.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against name and returns them
// sorted by score (descending), ties broken by name.
func RankCandidates(name string, known []string) CandidateList {
	out := make(CandidateList, 0, len(known))

	for _, k := range known {
		out = append(out, Candidate{Name: k, Score: NormalizedLevenshteinScore(name, k)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Best returns the top candidate, if any.
func (cl CandidateList) Best() (Candidate, bool) {
	if len(cl) == 0 {
		return Candidate{}, false
	}

	return cl[0], true
}

// AboveThreshold returns the candidates scoring at least threshold.
func (cl CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, c := range cl {
		if c.Score >= threshold {
			out = append(out, c)
		}
	}

	return out
}

// Closest returns the known name most similar to name when it scores at
// least threshold. An exact match is not a suggestion and returns false.
func Closest(name string, known []string, threshold float64) (string, bool) {
	best, ok := RankCandidates(name, known).AboveThreshold(threshold).Best()
	if !ok || best.Name == name {
		return "", false
	}

	return best.Name, true
}

// Package evaluation holds the session building blocks of the CPM model:
// ordered criteria and vendor registries, the ratings matrix, and the
// weighted result aggregation.
package evaluation

// Rating scale bounds. The scale is fixed at 1 (worst) to 4 (best).
const (
	RatingMin = 1
	RatingMax = 4
)

// Criterion pairs a criterion name with its 0-based priority rank
// (0 = highest priority).
type Criterion struct {
	Name string
	Rank int
}

// CriterionSet is an ordered, name-unique collection of criteria. Entries
// keep their insertion order; a separate rank table holds the priority
// permutation. The rank values always form a permutation of [0, Len()-1].
//
// The set does not enforce a minimum size; preventing removal of the last
// criterion is a caller obligation (the service layer enforces it).
type CriterionSet struct {
	names []string
	ranks []int
}

// NewCriterionSet seeds a set with names in priority order: the first name
// receives rank 0, the highest priority.
func NewCriterionSet(names ...string) *CriterionSet {
	s := &CriterionSet{}
	for _, name := range names {
		_ = s.Add(name)
	}
	return s
}

// Len returns the number of criteria.
func (s *CriterionSet) Len() int { return len(s.names) }

// Names returns the criterion names in insertion order.
func (s *CriterionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Ranks returns the rank table aligned with Names.
func (s *CriterionSet) Ranks() []int {
	out := make([]int, len(s.ranks))
	copy(out, s.ranks)
	return out
}

// Criteria returns the name/rank pairs in insertion order.
func (s *CriterionSet) Criteria() []Criterion {
	out := make([]Criterion, len(s.names))
	for i, name := range s.names {
		out[i] = Criterion{Name: name, Rank: s.ranks[i]}
	}
	return out
}

// Has reports whether name is registered. Matching is case-sensitive exact.
func (s *CriterionSet) Has(name string) bool {
	return s.indexOf(name) >= 0
}

// Add appends a criterion with the lowest priority (rank = previous count).
// Returns ErrDuplicateName if the name is already present.
func (s *CriterionSet) Add(name string) error {
	if s.indexOf(name) >= 0 {
		return ErrDuplicateName
	}
	s.names = append(s.names, name)
	s.ranks = append(s.ranks, len(s.ranks))
	return nil
}

// Remove deletes a criterion and re-compacts the remaining ranks: every rank
// greater than the removed one is decremented so the rank values stay a
// permutation of [0, Len()-1]. Returns ErrNotFound if the name is absent.
func (s *CriterionSet) Remove(name string) error {
	i := s.indexOf(name)
	if i < 0 {
		return ErrNotFound
	}
	removed := s.ranks[i]
	s.names = append(s.names[:i], s.names[i+1:]...)
	s.ranks = append(s.ranks[:i], s.ranks[i+1:]...)
	for j, r := range s.ranks {
		if r > removed {
			s.ranks[j] = r - 1
		}
	}
	return nil
}

// SetRank moves a criterion to a new priority rank, shifting every rank
// between the old and new position by one so the permutation invariant
// holds. Returns ErrNotFound for unknown names and ErrInvalidRank when the
// target rank is outside [0, Len()-1].
func (s *CriterionSet) SetRank(name string, rank int) error {
	i := s.indexOf(name)
	if i < 0 {
		return ErrNotFound
	}
	if rank < 0 || rank >= len(s.ranks) {
		return ErrInvalidRank
	}
	old := s.ranks[i]
	if rank == old {
		return nil
	}
	for j, r := range s.ranks {
		switch {
		case j == i:
			s.ranks[j] = rank
		case old < rank && r > old && r <= rank:
			s.ranks[j] = r - 1
		case old > rank && r >= rank && r < old:
			s.ranks[j] = r + 1
		}
	}
	return nil
}

// Rank returns the 0-based priority rank of a criterion.
func (s *CriterionSet) Rank(name string) (int, error) {
	i := s.indexOf(name)
	if i < 0 {
		return 0, ErrNotFound
	}
	return s.ranks[i], nil
}

func (s *CriterionSet) indexOf(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

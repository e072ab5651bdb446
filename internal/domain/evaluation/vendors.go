package evaluation

// VendorSet is an ordered, name-unique collection of vendors.
//
// Like CriterionSet it does not enforce a minimum size; that guard lives in
// the service layer.
type VendorSet struct {
	names []string
}

// NewVendorSet seeds a set with the given vendor names in order.
func NewVendorSet(names ...string) *VendorSet {
	s := &VendorSet{}
	for _, name := range names {
		_ = s.Add(name)
	}
	return s
}

// Len returns the number of vendors.
func (s *VendorSet) Len() int { return len(s.names) }

// Names returns the vendor names in insertion order.
func (s *VendorSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether name is registered. Matching is case-sensitive exact.
func (s *VendorSet) Has(name string) bool {
	return s.indexOf(name) >= 0
}

// Add appends a vendor. Returns ErrDuplicateName if already present.
func (s *VendorSet) Add(name string) error {
	if s.indexOf(name) >= 0 {
		return ErrDuplicateName
	}
	s.names = append(s.names, name)
	return nil
}

// Remove deletes a vendor. Returns ErrNotFound if the name is absent.
func (s *VendorSet) Remove(name string) error {
	i := s.indexOf(name)
	if i < 0 {
		return ErrNotFound
	}
	s.names = append(s.names[:i], s.names[i+1:]...)
	return nil
}

func (s *VendorSet) indexOf(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

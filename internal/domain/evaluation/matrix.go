package evaluation

import "fmt"

// cellKey identifies one (vendor, criterion) cell.
type cellKey struct {
	vendor    string
	criterion string
}

// Matrix stores integer ratings keyed by (vendor, criterion). It must be
// reconciled against the current registries after every registry mutation
// and before any read; reads against unregistered keys fail with
// ErrUnknownKey.
type Matrix struct {
	defaultRating int
	cells         map[cellKey]int
	vendors       []string
	criteria      []string
}

// MatrixOption applies a configuration option to a Matrix.
type MatrixOption func(*Matrix)

// WithDefaultRating sets the value assigned to newly introduced cells.
// Values outside the rating scale are ignored.
func WithDefaultRating(rating int) MatrixOption {
	return func(m *Matrix) {
		if rating >= RatingMin && rating <= RatingMax {
			m.defaultRating = rating
		}
	}
}

// NewMatrix creates an empty ratings matrix.
func NewMatrix(opts ...MatrixOption) *Matrix {
	m := &Matrix{
		defaultRating: RatingMin,
		cells:         map[cellKey]int{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reconcile rebuilds the matrix against the given vendor and criteria sets:
// cells that already existed for an exact (vendor, criterion) pair carry
// their value over unchanged, newly introduced pairs get the default rating,
// and cells for departed vendors or criteria are dropped. Reconcile is
// idempotent.
func (m *Matrix) Reconcile(vendors, criteria []string) {
	next := make(map[cellKey]int, len(vendors)*len(criteria))
	for _, v := range vendors {
		for _, c := range criteria {
			key := cellKey{vendor: v, criterion: c}
			if prior, ok := m.cells[key]; ok {
				next[key] = prior
			} else {
				next[key] = m.defaultRating
			}
		}
	}
	m.cells = next
	m.vendors = append([]string(nil), vendors...)
	m.criteria = append([]string(nil), criteria...)
}

// Get returns the rating for (vendor, criterion). Returns ErrUnknownKey if
// either is not part of the last reconciled sets.
func (m *Matrix) Get(vendor, criterion string) (int, error) {
	v, ok := m.cells[cellKey{vendor: vendor, criterion: criterion}]
	if !ok {
		return 0, fmt.Errorf("%w: (%s, %s)", ErrUnknownKey, vendor, criterion)
	}
	return v, nil
}

// Set stores a rating for (vendor, criterion). The value must be within the
// rating scale; out-of-range input is a caller contract violation and fails
// with ErrInvalidRating. Unregistered keys fail with ErrUnknownKey.
func (m *Matrix) Set(vendor, criterion string, value int) error {
	if value < RatingMin || value > RatingMax {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRating, value, RatingMin, RatingMax)
	}
	key := cellKey{vendor: vendor, criterion: criterion}
	if _, ok := m.cells[key]; !ok {
		return fmt.Errorf("%w: (%s, %s)", ErrUnknownKey, vendor, criterion)
	}
	m.cells[key] = value
	return nil
}

// Vendors returns the row set from the last reconciliation.
func (m *Matrix) Vendors() []string {
	return append([]string(nil), m.vendors...)
}

// Criteria returns the column set from the last reconciliation.
func (m *Matrix) Criteria() []string {
	return append([]string(nil), m.criteria...)
}

// Empty reports whether the matrix has no rows.
func (m *Matrix) Empty() bool {
	return len(m.vendors) == 0
}

// Row returns the ratings of one vendor in column order.
func (m *Matrix) Row(vendor string) ([]int, error) {
	out := make([]int, len(m.criteria))
	for i, c := range m.criteria {
		v, err := m.Get(vendor, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

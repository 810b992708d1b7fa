package sim

// Depot holds a multiset of modules keyed by type, at a fixed position.
// Every mutation preserves: no duplicate ids, and the per-type count
// matching the number of modules held of that type.
type Depot struct {
	X, Y   float64
	byType map[string][]Module
	ids    map[int]struct{}
}

// NewDepot builds a depot from an initial module inventory. Fails fatally
// (DuplicateIDError) if two modules share an id.
func NewDepot(x, y float64, modules []Module) (*Depot, error) {
	if err := DedupeByID(modules); err != nil {
		return nil, err
	}
	d := &Depot{
		X: x, Y: y,
		byType: make(map[string][]Module),
		ids:    make(map[int]struct{}, len(modules)),
	}
	for _, m := range modules {
		d.ids[m.ID] = struct{}{}
		d.byType[m.Type] = append(d.byType[m.Type], m)
	}
	return d, nil
}

// CountByType returns a snapshot of per-type counts, O(types).
func (d *Depot) CountByType() map[string]int {
	out := make(map[string]int, len(d.byType))
	for t, ms := range d.byType {
		out[t] = len(ms)
	}
	return out
}

// Snapshot returns a deep copy of the depot's current holdings by type.
func (d *Depot) Snapshot() map[string][]Module {
	out := make(map[string][]Module, len(d.byType))
	for t, ms := range d.byType {
		cp := make([]Module, len(ms))
		copy(cp, ms)
		out[t] = cp
	}
	return out
}

// Take withdraws exactly the requested per-type counts, atomically: either
// every type has enough stock and the withdrawal succeeds in full, or
// nothing is mutated and ok is false.
func (d *Depot) Take(request map[string]int) (modules []Module, ok bool) {
	for t, n := range request {
		if n < 0 || n > len(d.byType[t]) {
			return nil, false
		}
	}
	for t, n := range request {
		if n <= 0 {
			continue
		}
		stack := d.byType[t]
		split := len(stack) - n
		taken := stack[split:]
		modules = append(modules, taken...)
		for _, m := range taken {
			delete(d.ids, m.ID)
		}
		d.byType[t] = stack[:split]
	}
	return modules, true
}

// TakeBestEffort withdraws as many of each requested type as are available,
// never failing. Used only by a worker's reconstruction-completion path,
// which must accept partial coverage rather than block forever.
func (d *Depot) TakeBestEffort(request map[string]int) []Module {
	var out []Module
	for t, n := range request {
		if n <= 0 {
			continue
		}
		stack := d.byType[t]
		take := n
		if take > len(stack) {
			take = len(stack)
		}
		if take == 0 {
			continue
		}
		split := len(stack) - take
		taken := stack[split:]
		out = append(out, taken...)
		for _, m := range taken {
			delete(d.ids, m.ID)
		}
		d.byType[t] = stack[:split]
	}
	return out
}

// Put returns a batch of modules to the depot. Failed modules are silently
// dropped. The entire batch is rejected (fatal bookkeeping bug) if any
// surviving module's id already exists in the depot.
func (d *Depot) Put(modules []Module) error {
	for _, m := range modules {
		if m.State == ModuleFailed {
			continue
		}
		if _, dup := d.ids[m.ID]; dup {
			return &DuplicateIDError{ID: m.ID}
		}
	}
	for _, m := range modules {
		if m.State == ModuleFailed {
			continue
		}
		d.ids[m.ID] = struct{}{}
		d.byType[m.Type] = append(d.byType[m.Type], m)
	}
	return nil
}

// CanCover reports whether stock satisfies every type in deficits.
func CanCover(deficits, stock map[string]int) bool {
	for t, n := range deficits {
		if stock[t] < n {
			return false
		}
	}
	return true
}

package domain

// AllocateApartmentNumber returns the number of the next apartment on a
// floor that already holds existing apartments.
func AllocateApartmentNumber(floor, existing int) int {
	return floor*100 + existing + 1
}

type floorKey struct {
	building string
	floor    int
}

// NumberAllocator hands out apartment numbers for a batch of apartments.
// Each (building, floor) pair keeps a running counter seeded once from the
// persisted count, so a batch of N apartments on one floor receives N
// consecutive numbers without re-querying after each insert.
//
// A NumberAllocator is not safe for concurrent use; callers hold it for the
// lifetime of a single creating transaction.
type NumberAllocator struct {
	counts map[floorKey]int
}

// NewNumberAllocator creates an empty allocator.
func NewNumberAllocator() *NumberAllocator {
	return &NumberAllocator{counts: make(map[floorKey]int)}
}

// Seeded reports whether the pair already has a counter.
func (a *NumberAllocator) Seeded(building string, floor int) bool {
	_, ok := a.counts[floorKey{building, floor}]
	return ok
}

// Seed sets the persisted apartment count for a pair. Seeding an already
// seeded pair is a no-op so the running counter is never rewound.
func (a *NumberAllocator) Seed(building string, floor, existing int) {
	key := floorKey{building, floor}
	if _, ok := a.counts[key]; ok {
		return
	}
	a.counts[key] = existing
}

// Next allocates the next number for the pair and advances its counter.
// Unseeded pairs start from zero existing apartments.
func (a *NumberAllocator) Next(building string, floor int) int {
	key := floorKey{building, floor}
	existing := a.counts[key]
	a.counts[key] = existing + 1
	return AllocateApartmentNumber(floor, existing)
}

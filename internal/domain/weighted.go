package domain

// WeightedID is the minimal projection used for random selection.
type WeightedID struct {
	ID     int64
	Weight int
}

// PickWeighted chooses one id with probability proportional to its weight.
// intn must return a uniform value in [0, n). Entries with a weight below 1
// never win. ok is false when nothing can be picked.
func PickWeighted(items []WeightedID, intn func(n int64) int64) (id int64, ok bool) {
	var total int64
	for _, it := range items {
		if it.Weight > 0 {
			total += int64(it.Weight)
		}
	}

	if total == 0 {
		return 0, false
	}

	r := intn(total)

	var last int64
	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}

		if r < int64(it.Weight) {
			return it.ID, true
		}

		r -= int64(it.Weight)
		last = it.ID
	}

	// Only reached when intn returns a value outside [0, total).
	return last, true
}

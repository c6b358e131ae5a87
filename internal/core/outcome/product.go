package outcome

import "fmt"

// Product builds the full Cartesian product of lists and reduces every
// combination with reduce.
//
// # Ordering
//
// Combinations are produced in odometer order: the last list varies fastest.
// Paths are the concatenation of each chosen outcome's path, in list order.
//
// # Cost
//
// The result has ∏|lists[i]| entries. Product refuses to build more than
// limit entries and returns ErrTooManyOutcomes instead; a non-positive limit
// disables the check.
func Product(lists []Outcomes, limit int, reduce func(values []int) (int, error)) (Outcomes, error) {
	if len(lists) == 0 {
		return Outcomes{}, nil
	}
	size := 1
	for _, list := range lists {
		if len(list) == 0 {
			return Outcomes{}, nil
		}
		if limit > 0 && size > limit/len(list) {
			return nil, ErrTooManyOutcomes.With("Size", fmt.Sprintf("> %d", limit))
		}
		size *= len(list)
	}

	result := make(Outcomes, 0, size)
	index := make([]int, len(lists))
	values := make([]int, len(lists))
	paths := make([][]int, len(lists))

	for {
		weight := uint64(1)
		for i, list := range lists {
			chosen := list[index[i]]
			values[i] = chosen.Value
			paths[i] = chosen.Path
			next, err := MulWeight(weight, chosen.Weight)
			if err != nil {
				return nil, err
			}
			weight = next
		}
		value, err := reduce(values)
		if err != nil {
			return nil, err
		}
		result = append(result, Outcome{Path: Join(paths...), Value: value, Weight: weight})

		// Advance the odometer from the last position.
		pos := len(lists) - 1
		for pos >= 0 {
			index[pos]++
			if index[pos] < len(lists[pos]) {
				break
			}
			index[pos] = 0
			pos--
		}
		if pos < 0 {
			return result, nil
		}
	}
}

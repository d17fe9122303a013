package converter

// resolveRange validates requested 1-based bounds against the filtered
// chapter count and resolves the -1 sentinel to the last chapter.
func resolveRange(start, end, total int) (int, int, error) {
	if start < 1 || start > total {
		return 0, 0, &RangeError{Bound: "start", Value: start, Limit: total}
	}
	if end < -1 || end > total {
		return 0, 0, &RangeError{Bound: "end", Value: end, Limit: total}
	}
	if end == -1 {
		end = total
	}
	if start > end {
		return 0, 0, &RangeError{Bound: "order", Value: start, Limit: end}
	}
	return start, end, nil
}

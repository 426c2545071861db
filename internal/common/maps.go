package common

// MapKeys collects the keys of m in map iteration order, i.e. unordered.
func MapKeys[K comparable, V any](m map[K]V) []K {
	result := make([]K, 0, len(m))
	for k := range m {
		result = append(result, k)
	}

	return result
}

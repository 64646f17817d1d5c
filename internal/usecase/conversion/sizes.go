package conversion

// resolveSizes gives the configured defaults when no list was sent at all.
// An explicit empty list means no image variants.
func resolveSizes(sizes, defaults []string) []string {
	if sizes == nil {
		return defaults
	}
	return sizes
}

package http

// ExtractVersion exposes extractVersion for tests.
func ExtractVersion(ldFlagsValueStr string) (string, error) {
	return extractVersion(ldFlagsValueStr)
}

package utils

// Ptr returns a pointer to v. Playwright option structs take pointer
// fields for almost everything, so this shows up all over the portal
// automation layer.
func Ptr[T any](v T) *T {
	return &v
}

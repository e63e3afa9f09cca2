//go:build !debug_mem_utils

package memutils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_utils build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckRange will verify that [offset, offset+size) lies within [0, limit), and panics if it does not.
// This method no-ops unless the debug_mem_utils build tag is present.
func DebugCheckRange(offset, size, limit int, name string) {
}

// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package utils

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int.
// Commonly used for the optional days-remaining derived field.
func IntPtr(i int) *int {
	return &i
}

// IntPtrEqual reports whether two optional ints hold the same value.
// Two nil pointers are equal; a nil pointer never equals a non-nil one.
func IntPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

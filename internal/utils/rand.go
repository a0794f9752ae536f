package utils

import (
	"math/rand"
	"strconv"
)

const slugBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSlug returns a random alphanumeric slug of length n, used as the
// public identifier of a thread.
func RandSlug(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = slugBytes[rand.Intn(len(slugBytes))]
	}
	return string(b)
}

// StringToInt converts string to int, returns 0 if error.
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// StringToUint converts string to uint, returns 0 if error.
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(i)
}

package model

import "math/rand/v2"

// generateCode returns a random number with exactly the given count of digits.
func generateCode(digits int) int {
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}
	return low + rand.IntN(low*9)
}

func digitCount(n int) int {
	if n == 0 {
		return 1
	}
	c := 0
	for n > 0 {
		n /= 10
		c++
	}
	return c
}

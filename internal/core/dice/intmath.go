package dice

import (
	"math"
	"sync"
)

func addInt(a, b int) (int, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	return c, true
}

func powInt(base, exp int) (int, bool) {
	result := 1
	for i := 0; i < exp; i++ {
		next, ok := mulInt(result, base)
		if !ok {
			return 0, false
		}
		result = next
	}
	return result, true
}

// floorDiv rounds toward negative infinity. b must not be zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod takes the sign of the divisor. b must not be zero.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// isqrt returns ⌊√n⌋ for n ≥ 0.
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// ilog returns ⌊log_base n⌋ for n ≥ 1 and base ≥ 2.
func ilog(n, base int) int {
	k := 0
	for n >= base {
		n /= base
		k++
	}
	return k
}

const maxFactorial = 20

func factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

func gcdInt(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

const maxPrimeIndex = 100000

var (
	primesOnce sync.Once
	primes     []int
)

// nthPrime returns the n-th prime, 1-indexed, for 1 ≤ n ≤ maxPrimeIndex.
func nthPrime(n int) int {
	primesOnce.Do(func() {
		// The 100000th prime is 1299709.
		const limit = 1299710
		composite := make([]bool, limit)
		primes = make([]int, 0, maxPrimeIndex)
		for i := 2; i < limit && len(primes) < maxPrimeIndex; i++ {
			if composite[i] {
				continue
			}
			primes = append(primes, i)
			for j := i * i; j < limit; j += i {
				composite[j] = true
			}
		}
	})
	return primes[n-1]
}

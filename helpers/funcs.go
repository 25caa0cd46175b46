package helpers

import "math"

func Sum(numbers []float64) (total float64) {
	for _, x := range numbers {
		total += x
	}
	return total
}

func Mean(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	return Sum(numbers) / float64(len(numbers))
}

// StdDev is the sample standard deviation around the given mean. Fewer
// than two values have no spread and yield 0.
func StdDev(numbers []float64, mean float64) float64 {
	if len(numbers) < 2 {
		return 0
	}
	total := 0.0
	for _, number := range numbers {
		total += math.Pow(number-mean, 2)
	}
	variance := total / float64(len(numbers)-1)
	return math.Sqrt(variance)
}

// SimpleReturns turns a price list into bar-over-bar percentage changes.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

func MaxFloat(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	maximum := numbers[0]
	for _, x := range numbers {
		if x > maximum {
			maximum = x
		}
	}
	return maximum
}

func MinFloat(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	minimum := numbers[0]
	for _, x := range numbers {
		if x < minimum {
			minimum = x
		}
	}
	return minimum
}

// ArgMax returns the index of the first maximum, so ties resolve to the
// earliest entry.
func ArgMax(numbers []float64) int {
	best := 0
	for i, x := range numbers {
		if x > numbers[best] {
			best = i
		}
	}
	return best
}

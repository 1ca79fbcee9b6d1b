package f32

// Sum is
//  var sum float32
//  for i := range x {
//      sum += x[i]
//  }
func Sum(x []float32) float32 {
	var sum float32
	for _, v := range x {
		sum += v
	}
	return sum
}

// Max is
//  max := x[0]
//  for _, v := range x {
//  	if v > max {
//  		max = v
//  	}
//  }
//
// Max panics if x is empty.
func Max(x []float32) float32 {
	max := x[0]
	for _, v := range x[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Argmax is the index of the largest element of x, with ties broken
// by the lowest index. Argmax panics if x is empty.
func Argmax(x []float32) int {
	best := 0
	for i, v := range x[1:] {
		if v > x[best] {
			best = i + 1
		}
	}
	return best
}

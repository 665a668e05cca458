package model

// CheckoutRoute is a single ranked finishing sequence
type CheckoutRoute struct {
	Darts       []int
	Difficulty  int
	Description string // e.g. "T20 -> T20 -> Bull"
}

// CheckoutData holds every enumerated finish for one target score.
// Built once per score and immutable afterwards.
type CheckoutData struct {
	Score    int
	Possible bool

	// Finishing combinations bucketed by dart count
	SingleDart [][]int
	TwoDart    [][]int
	ThreeDart  [][]int

	// Recommended is the top ranked routes across all buckets
	Recommended []CheckoutRoute
}

package domain

const (
	MinRating = 1
	MaxRating = 5
)

// Ratings is the running summary of a garage's reviews.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ValidRating reports whether r is inside [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Add folds one more rating into the summary without replaying prior samples.
func (r Ratings) Add(rating int) Ratings {
	next := r.Count + 1
	return Ratings{
		Average: (r.Average*float64(r.Count) + float64(rating)) / float64(next),
		Count:   next,
	}
}

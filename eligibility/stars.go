package eligibility

import (
	"math"

	"eldato-web/models"
)

// MaxStars is the top of the rating scale
const MaxStars = 5

// StarStates renders a 0..5 rating as five full, half or empty stars
func StarStates(rating float64) []models.StarState {
	states := make([]models.StarState, MaxStars)
	for i := 1; i <= MaxStars; i++ {
		pos := float64(i)
		switch {
		case rating >= pos:
			states[i-1] = models.StarFull
		case rating >= pos-0.5:
			states[i-1] = models.StarHalf
		default:
			states[i-1] = models.StarEmpty
		}
	}
	return states
}

// Average is the mean star count rounded to one decimal, 0 when there are no ratings
func Average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Stars
	}
	return math.Round(float64(total)/float64(len(ratings))*10) / 10
}

// Overview bundles received ratings with their average and its star rendering
func Overview(ratings []models.Rating) models.RatingOverview {
	if ratings == nil {
		ratings = []models.Rating{}
	}
	avg := Average(ratings)
	return models.RatingOverview{
		Ratings: ratings,
		Count:   len(ratings),
		Average: avg,
		Stars:   StarStates(avg),
	}
}

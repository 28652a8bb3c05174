package schedule

import (
	"fmt"
	"strings"
)

// Rating represents the user's self-assessed recall of a problem
type Rating int

const (
	Again Rating = 1 // Could not solve it
	Hard  Rating = 2 // Solved with serious difficulty
	Good  Rating = 3 // Solved after some hesitation
	Easy  Rating = 4 // Solved without effort
)

// Ratings lists every rating in ascending order
var Ratings = []Rating{Again, Hard, Good, Easy}

// Valid reports whether r is one of the four known ratings
func (r Rating) Valid() bool {
	switch r {
	case Again, Hard, Good, Easy:
		return true
	default:
		return false
	}
}

func (r Rating) String() string {
	switch r {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	default:
		return fmt.Sprintf("rating(%d)", int(r))
	}
}

// ParseRating converts a rating name ("again", "hard", "good", "easy") or its
// numeric form ("1".."4") into a Rating
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again", "1":
		return Again, nil
	case "hard", "2":
		return Hard, nil
	case "good", "3":
		return Good, nil
	case "easy", "4":
		return Easy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
}

package schedule

// Status is the lifecycle label of a tracked problem
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// IsValidStatus checks if a status is known
func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusNew, StatusLearning, StatusReviewing, StatusMastered:
		return true
	default:
		return false
	}
}

// StatusAfterReview returns the status an entry moves to after being rated.
// A failed recall goes back to learning; anything else is reviewing.
func StatusAfterReview(rating Rating) Status {
	if rating == Again {
		return StatusLearning
	}
	return StatusReviewing
}

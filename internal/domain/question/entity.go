package question

import (
	"fmt"
	"strconv"
	"strings"
)

// ID represents the question's unique identifier
type ID string

// TopicID represents a topic's unique identifier
type TopicID string

// StudyListID represents a study list's unique identifier
type StudyListID string

// Difficulty is the problem difficulty published by LeetCode
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValidDifficulty checks if a difficulty is valid
func IsValidDifficulty(difficulty string) bool {
	switch Difficulty(difficulty) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseDifficulty accepts a difficulty in any letter case
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDifficulty)
	}
	normalized := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	if !IsValidDifficulty(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return Difficulty(normalized), nil
}

// Topic is a problem tag such as "Array" or "Dynamic Programming"
type Topic struct {
	ID   TopicID
	Name string
	Slug string
}

// TopicCount is a topic with the number of problems carrying it
type TopicCount struct {
	Topic
	Count int
}

// StudyList is a curated group of problems, e.g. "Blind 75"
type StudyList struct {
	ID          StudyListID
	Name        string
	Slug        string
	QuestionIDs []ID
}

// Question represents a coding-interview problem
type Question struct {
	id         ID
	frontendID int
	title      string
	titleSlug  string
	difficulty Difficulty
	acRate     *float64
	topics     []Topic
}

// NewQuestion creates a new question
func NewQuestion(id ID, frontendID int, title, titleSlug string, difficulty Difficulty) *Question {
	return &Question{
		id:         id,
		frontendID: frontendID,
		title:      title,
		titleSlug:  titleSlug,
		difficulty: difficulty,
	}
}

// Getters
func (q *Question) ID() ID                 { return q.id }
func (q *Question) FrontendID() int        { return q.frontendID }
func (q *Question) Title() string          { return q.title }
func (q *Question) TitleSlug() string      { return q.titleSlug }
func (q *Question) Difficulty() Difficulty { return q.difficulty }
func (q *Question) AcRate() *float64       { return q.acRate }
func (q *Question) Topics() []Topic        { return q.topics }

// SetAcRate sets the acceptance rate in percent
func (q *Question) SetAcRate(rate float64) {
	q.acRate = &rate
}

// SetTopics replaces the question's topics
func (q *Question) SetTopics(topics []Topic) {
	q.topics = topics
}

// URL returns the problem page on leetcode.com
func (q *Question) URL() string {
	return "https://leetcode.com/problems/" + q.titleSlug + "/"
}

// DisplayTitle returns "<number>. <title>"
func (q *Question) DisplayTitle() string {
	return strconv.Itoa(q.frontendID) + ". " + q.title
}

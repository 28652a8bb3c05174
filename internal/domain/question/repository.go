package question

import "context"

// Repository defines the contract for question catalog persistence
type Repository interface {
	// SaveBatch inserts or updates questions together with their topics
	SaveBatch(ctx context.Context, questions []*Question) error

	// SaveStudyLists inserts or updates study lists and their membership
	SaveStudyLists(ctx context.Context, lists []*StudyList) error

	// FindByID retrieves a question, or nil if it does not exist
	FindByID(ctx context.Context, id ID) (*Question, error)

	// List returns one page of questions ordered by problem number
	List(ctx context.Context, filter Filter) (*Page, error)

	// ListTopics returns every topic with its question count, largest first
	ListTopics(ctx context.Context) ([]*TopicCount, error)

	// ListStudyLists returns all study lists ordered by name
	ListStudyLists(ctx context.Context) ([]*StudyList, error)

	// StudyListQuestionIDs returns the questions of a study list
	StudyListQuestionIDs(ctx context.Context, id StudyListID) ([]ID, error)
}

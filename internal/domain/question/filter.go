package question

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of questions per library page
const DefaultPageSize = 30

// Filter narrows a library listing
type Filter struct {
	Search      string
	TopicID     TopicID
	StudyListID StudyListID
	Page        int
	PageSize    int
}

// Page is one page of library results
type Page struct {
	Questions []*Question
	Total     int
	NextPage  *int
}

// Search is a parsed search term
type Search struct {
	// Term is the trimmed text matched against titles
	Term string
	// FrontendID is set when the term is a problem number
	FrontendID *int
}

// ParseSearch trims the raw term and detects problem numbers.
// An empty result means no search was requested.
func ParseSearch(raw string) Search {
	term := strings.TrimSpace(raw)
	s := Search{Term: term}
	if term == "" {
		return s
	}
	if n, err := strconv.Atoi(term); err == nil {
		s.FrontendID = &n
	}
	return s
}

// IsEmpty reports whether no search was requested
func (s Search) IsEmpty() bool {
	return s.Term == ""
}

// LikePattern returns the term wrapped for a SQL LIKE substring match
func (s Search) LikePattern() string {
	return "%" + s.Term + "%"
}

// Normalize fills in the page size and clamps the page number
func Normalize(page, pageSize, defaultSize int) (int, int) {
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if page < 0 {
		page = 0
	}
	return page, pageSize
}

// NextPage returns page+1 when the fetched page was full, nil otherwise
func NextPage(page, pageSize, fetched int) *int {
	if fetched < pageSize {
		return nil
	}
	next := page + 1
	return &next
}

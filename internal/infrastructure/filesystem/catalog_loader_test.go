package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetcode-srs-bot/internal/domain/question"
)

const yamlCatalog = `
questions:
  - frontend_id: 1
    title: Two Sum
    title_slug: two-sum
    difficulty: easy
    ac_rate: 49.5
    topics:
      - name: Array
      - name: Hash Table
        slug: hash-table
  - id: custom-id
    frontend_id: 42
    title: Trapping Rain Water
    difficulty: Hard
    topics:
      - name: Array
study_lists:
  - name: Blind 75
    questions: [two-sum, trapping-rain-water]
`

func TestLoadYAML(t *testing.T) {
	catalog, err := NewCatalogLoader().Load(strings.NewReader(yamlCatalog), FormatYAML)
	require.NoError(t, err)
	require.Len(t, catalog.Questions, 2)

	twoSum := catalog.Questions[0]
	assert.Equal(t, "Two Sum", twoSum.Title())
	assert.Equal(t, question.DifficultyEasy, twoSum.Difficulty())
	require.NotNil(t, twoSum.AcRate())
	assert.Equal(t, 49.5, *twoSum.AcRate())
	_, err = uuid.Parse(string(twoSum.ID()))
	assert.NoError(t, err)

	require.Len(t, twoSum.Topics(), 2)
	assert.Equal(t, "array", twoSum.Topics()[0].Slug)
	assert.Equal(t, "hash-table", twoSum.Topics()[1].Slug)

	trap := catalog.Questions[1]
	assert.Equal(t, question.ID("custom-id"), trap.ID())
	assert.Equal(t, "trapping-rain-water", trap.TitleSlug())
	assert.Equal(t, twoSum.Topics()[0].ID, trap.Topics()[0].ID)

	require.Len(t, catalog.StudyLists, 1)
	list := catalog.StudyLists[0]
	assert.Equal(t, "blind-75", list.Slug)
	assert.Equal(t, []question.ID{twoSum.ID(), "custom-id"}, list.QuestionIDs)
}

func TestLoadIsDeterministic(t *testing.T) {
	first, err := NewCatalogLoader().Load(strings.NewReader(yamlCatalog), FormatYAML)
	require.NoError(t, err)
	second, err := NewCatalogLoader().Load(strings.NewReader(yamlCatalog), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, first.Questions[0].ID(), second.Questions[0].ID())
	assert.Equal(t, first.StudyLists[0].ID, second.StudyLists[0].ID)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"questions": [
			{"frontend_id": 15, "title": "3Sum", "title_slug": "3sum", "difficulty": "Medium",
			 "topics": [{"name": "Two Pointers"}]}
		]
	}`), 0o600))

	catalog, err := NewCatalogLoader().LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, catalog.Questions, 1)
	assert.Equal(t, "3sum", catalog.Questions[0].TitleSlug())
	assert.Equal(t, "two-pointers", catalog.Questions[0].Topics()[0].Slug)
	assert.Empty(t, catalog.StudyLists)
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "bad difficulty",
			data: "questions:\n  - {frontend_id: 1, title: A, difficulty: Extreme}\n",
			want: "invalid difficulty",
		},
		{
			name: "missing title",
			data: "questions:\n  - {frontend_id: 1, difficulty: Easy}\n",
			want: "title is required",
		},
		{
			name: "missing frontend id",
			data: "questions:\n  - {title: A, difficulty: Easy}\n",
			want: "frontend_id",
		},
		{
			name: "duplicate slug",
			data: "questions:\n  - {frontend_id: 1, title: A, difficulty: Easy}\n  - {frontend_id: 2, title: a, difficulty: Easy}\n",
			want: "duplicate title slug",
		},
		{
			name: "unknown list question",
			data: "study_lists:\n  - {name: L, questions: [nope]}\n",
			want: "unknown question",
		},
		{
			name: "question id too long",
			data: "questions:\n  - {id: " + strings.Repeat("q", MaxIDLength+1) + ", frontend_id: 1, title: A, difficulty: Easy}\n",
			want: "longer than 54 bytes",
		},
		{
			name: "study list id too long",
			data: "study_lists:\n  - {id: " + strings.Repeat("l", MaxIDLength+1) + ", name: L}\n",
			want: "longer than 54 bytes",
		},
		{
			name: "ac rate out of range",
			data: "questions:\n  - {frontend_id: 1, title: A, difficulty: Easy, ac_rate: 120}\n",
			want: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalogLoader().Load(strings.NewReader(tt.data), FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAcceptsIDsAtTheLimit(t *testing.T) {
	id := strings.Repeat("q", MaxIDLength)
	data := "questions:\n  - {id: " + id + ", frontend_id: 1, title: A, difficulty: Easy}\n" +
		"study_lists:\n  - {id: " + strings.Repeat("l", MaxIDLength) + ", name: L, questions: [a]}\n"

	catalog, err := NewCatalogLoader().Load(strings.NewReader(data), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, question.ID(id), catalog.Questions[0].ID())
	assert.LessOrEqual(t, len("tracklist_"+string(catalog.StudyLists[0].ID)), 64)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("x/catalog.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("catalog.csv")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "two-sum", Slugify("Two Sum"))
	assert.Equal(t, "longest-substring-without-repeating-characters",
		Slugify("  Longest Substring -- Without Repeating Characters! "))
	assert.Equal(t, "3sum", Slugify("3Sum"))
}

package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"leetcode-srs-bot/internal/domain/question"
)

// Format is the encoding of a catalog file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// MaxIDLength bounds question and study list ids. They travel in Telegram
// button payloads ("tracklist_" + id), which are capped at 64 bytes.
const MaxIDLength = 54

// CatalogLoader handles loading the problem catalog from files
type CatalogLoader struct{}

// NewCatalogLoader creates a new catalog loader
func NewCatalogLoader() *CatalogLoader {
	return &CatalogLoader{}
}

// CatalogData represents the file structure of a catalog
type CatalogData struct {
	Questions  []QuestionEntry  `json:"questions" yaml:"questions"`
	StudyLists []StudyListEntry `json:"study_lists" yaml:"study_lists"`
}

// QuestionEntry represents a single problem in the file
type QuestionEntry struct {
	ID         string       `json:"id" yaml:"id"`
	FrontendID int          `json:"frontend_id" yaml:"frontend_id"`
	Title      string       `json:"title" yaml:"title"`
	TitleSlug  string       `json:"title_slug" yaml:"title_slug"`
	Difficulty string       `json:"difficulty" yaml:"difficulty"`
	AcRate     *float64     `json:"ac_rate,omitempty" yaml:"ac_rate,omitempty"`
	Topics     []TopicEntry `json:"topics" yaml:"topics"`
}

// TopicEntry names a topic; the slug is derived from the name when empty
type TopicEntry struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// StudyListEntry lists problems by title slug
type StudyListEntry struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Slug      string   `json:"slug" yaml:"slug"`
	Questions []string `json:"questions" yaml:"questions"`
}

// Catalog is a decoded and validated catalog
type Catalog struct {
	Questions  []*question.Question
	StudyLists []*question.StudyList
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(filename))
	}
}

// LoadFromFile loads a catalog from a JSON or YAML file
func (cl *CatalogLoader) LoadFromFile(filename string) (*Catalog, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	return cl.Load(file, format)
}

// Load decodes and validates a catalog
func (cl *CatalogLoader) Load(r io.Reader, format Format) (*Catalog, error) {
	var data CatalogData

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode catalog JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	return data.build()
}

func (d *CatalogData) build() (*Catalog, error) {
	catalog := &Catalog{}
	bySlug := make(map[string]question.ID, len(d.Questions))

	for i, entry := range d.Questions {
		q, err := entry.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if _, dup := bySlug[q.TitleSlug()]; dup {
			return nil, fmt.Errorf("question %d: duplicate title slug %q", i+1, q.TitleSlug())
		}
		bySlug[q.TitleSlug()] = q.ID()
		catalog.Questions = append(catalog.Questions, q)
	}

	seenLists := make(map[string]bool, len(d.StudyLists))
	for i, entry := range d.StudyLists {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("study list %d: name is required", i+1)
		}
		slug := entry.Slug
		if slug == "" {
			slug = Slugify(name)
		}
		if seenLists[slug] {
			return nil, fmt.Errorf("study list %d: duplicate slug %q", i+1, slug)
		}
		seenLists[slug] = true

		listID, err := idOr(entry.ID, "https://leetcode.com/studyplan/"+slug+"/")
		if err != nil {
			return nil, fmt.Errorf("study list %q: %w", name, err)
		}
		list := &question.StudyList{
			ID:   question.StudyListID(listID),
			Name: name,
			Slug: slug,
		}
		for _, qslug := range entry.Questions {
			id, ok := bySlug[qslug]
			if !ok {
				return nil, fmt.Errorf("study list %q: unknown question %q", name, qslug)
			}
			list.QuestionIDs = append(list.QuestionIDs, id)
		}
		catalog.StudyLists = append(catalog.StudyLists, list)
	}

	return catalog, nil
}

func (e QuestionEntry) toQuestion() (*question.Question, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if e.FrontendID <= 0 {
		return nil, fmt.Errorf("%q: frontend_id must be positive", title)
	}
	slug := e.TitleSlug
	if slug == "" {
		slug = Slugify(title)
	}

	difficulty, err := question.ParseDifficulty(e.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", title, err)
	}

	id, err := idOr(e.ID, "https://leetcode.com/problems/"+slug+"/")
	if err != nil {
		return nil, fmt.Errorf("%q: %w", title, err)
	}

	q := question.NewQuestion(
		question.ID(id),
		e.FrontendID,
		title,
		slug,
		difficulty,
	)
	if e.AcRate != nil {
		if *e.AcRate < 0 || *e.AcRate > 100 {
			return nil, fmt.Errorf("%q: ac_rate %.2f out of range", title, *e.AcRate)
		}
		q.SetAcRate(*e.AcRate)
	}

	var topics []question.Topic
	seen := make(map[string]bool)
	for _, t := range e.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("%q: topic name is required", title)
		}
		tslug := t.Slug
		if tslug == "" {
			tslug = Slugify(name)
		}
		if seen[tslug] {
			continue
		}
		seen[tslug] = true
		topics = append(topics, question.Topic{
			ID:   question.TopicID(nameID("https://leetcode.com/tag/" + tslug + "/")),
			Name: name,
			Slug: tslug,
		})
	}
	q.SetTopics(topics)

	return q, nil
}

// idOr returns id, or a name-based UUID so repeated imports yield the same ids
func idOr(id, name string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		if len(id) > MaxIDLength {
			return "", fmt.Errorf("id %q is longer than %d bytes", id, MaxIDLength)
		}
		return id, nil
	}
	return nameID(name), nil
}

func nameID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Slugify lowercases s and joins its words with dashes
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

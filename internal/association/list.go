// ABOUTME: Ordered list of association rows edited alongside the decision form
// ABOUTME: Clearing or changing a row's topic always clears its sub-topic
package association

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harper/review-console/internal/models"
)

// Field names a row column that can be updated
type Field string

const (
	FieldTopic      Field = "topic"
	FieldSubTopic   Field = "subTopic"
	FieldCorrection Field = "correction"
)

// ParseField accepts the canonical names plus a few spellings used by the CLI
func ParseField(s string) (Field, error) {
	switch s {
	case "topic", "topicId", "topic_id":
		return FieldTopic, nil
	case "subTopic", "subtopic", "subTopicId", "sub_topic", "sub_topic_id":
		return FieldSubTopic, nil
	case "correction":
		return FieldCorrection, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

var (
	ErrRowNotFound       = errors.New("row not found")
	ErrUnknownField      = errors.New("unknown row field")
	ErrUnknownTopic      = errors.New("unknown topic")
	ErrNoTopic           = errors.New("row has no topic")
	ErrUnknownSubTopic   = errors.New("topic has no such sub-topic")
	ErrInvalidCorrection = errors.New("invalid correction")
)

// List is an ordered collection of rows. It has no minimum size; callers
// that need at least one row enforce that themselves.
type List struct {
	topics *TopicTable
	rows   []models.Row
	newID  func() string
}

// NewList creates an empty list backed by a topic table
func NewList(topics *TopicTable) *List {
	return &List{
		topics: topics,
		newID:  func() string { return uuid.New().String() },
	}
}

// FromRows rebuilds a list from persisted rows. Rows referring to topics
// or sub-topics missing from the table have those references cleared.
// Rows with an empty or repeated id get a fresh one.
func FromRows(topics *TopicTable, rows []models.Row) *List {
	l := NewList(topics)
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.ID == "" || seen[r.ID] {
			r.ID = l.newID()
		}
		seen[r.ID] = true
		if _, ok := topics.Topic(r.TopicID); !ok {
			r.TopicID = ""
		}
		if _, ok := topics.SubTopic(r.TopicID, r.SubTopicID); !ok {
			r.SubTopicID = ""
		}
		if !r.Correction.IsValid() {
			r.Correction = models.CorrectionUnset
		}
		l.rows = append(l.rows, r)
	}
	return l
}

// Topics returns the lookup table the list validates against
func (l *List) Topics() *TopicTable {
	return l.topics
}

// Len returns the number of rows
func (l *List) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the rows in order
func (l *List) Rows() []models.Row {
	out := make([]models.Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Get returns a row by id
func (l *List) Get(id string) (models.Row, bool) {
	i := l.find(id)
	if i < 0 {
		return models.Row{}, false
	}
	return l.rows[i], true
}

// Add appends a row with every field empty and returns it
func (l *List) Add() models.Row {
	row := models.Row{ID: l.newID()}
	l.rows = append(l.rows, row)
	return row
}

// Remove deletes a row by id
func (l *List) Remove(id string) error {
	i := l.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return nil
}

// Update sets one field of a row. An empty value clears the field.
func (l *List) Update(id string, field Field, value string) error {
	i := l.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	row := l.rows[i]

	switch field {
	case FieldTopic:
		if value != "" {
			if _, ok := l.topics.Topic(value); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownTopic, value)
			}
		}
		row.TopicID = value
		row.SubTopicID = ""

	case FieldSubTopic:
		if value != "" {
			if row.TopicID == "" {
				return fmt.Errorf("row %s: %w", id, ErrNoTopic)
			}
			if _, ok := l.topics.SubTopic(row.TopicID, value); !ok {
				return fmt.Errorf("%w: %q under %q", ErrUnknownSubTopic, value, row.TopicID)
			}
		}
		row.SubTopicID = value

	case FieldCorrection:
		c, err := models.ParseCorrection(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCorrection, value)
		}
		row.Correction = c

	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	l.rows[i] = row
	return nil
}

func (l *List) find(id string) int {
	for i, r := range l.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

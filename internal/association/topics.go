// ABOUTME: Read-only topic lookup table for association rows
// ABOUTME: Loaded from an embedded YAML document at startup
package association

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopicsYAML []byte

// SubTopic is an optional refinement of a topic
type SubTopic struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Topic is one entry of the lookup table
type Topic struct {
	ID        string     `yaml:"id" json:"id"`
	Label     string     `yaml:"label" json:"label"`
	SubTopics []SubTopic `yaml:"sub_topics,omitempty" json:"sub_topics,omitempty"`
}

// SubTopic looks up one of the topic's sub-topics
func (t Topic) SubTopic(id string) (SubTopic, bool) {
	for _, s := range t.SubTopics {
		if s.ID == id {
			return s, true
		}
	}
	return SubTopic{}, false
}

// TopicTable is an immutable, ordered set of topics
type TopicTable struct {
	topics []Topic
	index  map[string]int
}

type topicsDoc struct {
	Topics []Topic `yaml:"topics"`
}

// ParseTopics parses a YAML topic document
func ParseTopics(data []byte) (*TopicTable, error) {
	var doc topicsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing topics: %w", err)
	}
	return NewTopicTable(doc.Topics)
}

// NewTopicTable validates ids and builds the lookup index
func NewTopicTable(topics []Topic) (*TopicTable, error) {
	t := &TopicTable{
		topics: make([]Topic, len(topics)),
		index:  make(map[string]int, len(topics)),
	}
	copy(t.topics, topics)

	for i, topic := range t.topics {
		if topic.ID == "" {
			return nil, errors.New("topic ID cannot be empty")
		}
		if _, dup := t.index[topic.ID]; dup {
			return nil, fmt.Errorf("duplicate topic %q", topic.ID)
		}
		seen := make(map[string]bool, len(topic.SubTopics))
		for _, s := range topic.SubTopics {
			if s.ID == "" || seen[s.ID] {
				return nil, fmt.Errorf("topic %q: invalid or duplicate sub-topic %q", topic.ID, s.ID)
			}
			seen[s.ID] = true
		}
		t.index[topic.ID] = i
	}
	return t, nil
}

var defaultTopics = mustParseTopics(defaultTopicsYAML)

func mustParseTopics(data []byte) *TopicTable {
	t, err := ParseTopics(data)
	if err != nil {
		panic(fmt.Sprintf("association: embedded topics: %v", err))
	}
	return t
}

// DefaultTopics returns the embedded topic table
func DefaultTopics() *TopicTable {
	return defaultTopics
}

// Topic looks up a topic by id
func (t *TopicTable) Topic(id string) (Topic, bool) {
	i, ok := t.index[id]
	if !ok {
		return Topic{}, false
	}
	return t.topics[i], true
}

// SubTopic looks up a sub-topic of a topic
func (t *TopicTable) SubTopic(topicID, subTopicID string) (SubTopic, bool) {
	topic, ok := t.Topic(topicID)
	if !ok {
		return SubTopic{}, false
	}
	return topic.SubTopic(subTopicID)
}

// Topics returns all topics in table order
func (t *TopicTable) Topics() []Topic {
	out := make([]Topic, len(t.topics))
	copy(out, t.topics)
	return out
}

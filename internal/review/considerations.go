// ABOUTME: Plain-text considerations summary of an edit session
// ABOUTME: Lists selected decisions per group and renders rows via the topic table
package review

import (
	"fmt"
	"strings"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
)

// Considerations renders the session as text for notes and LLM drafting
func Considerations(s *Session) string {
	return RenderConsiderations(s.tax, s.decisions, s.rows.Topics(), s.rows.Rows())
}

// RenderConsiderations renders any decision state and rows as text
func RenderConsiderations(tax *decision.Taxonomy, state decision.State, topics *association.TopicTable, rows []models.Row) string {
	var b strings.Builder

	for _, g := range tax.Groups() {
		var picked []string
		for _, n := range tax.InGroup(g) {
			if !state[n.ID] {
				continue
			}
			label := n.Label
			if parent, ok := tax.Node(n.ParentID); ok {
				label = parent.Label + ": " + n.Label
			}
			picked = append(picked, label)
		}
		if len(picked) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", g.Label(), strings.Join(picked, ", "))
	}
	if b.Len() == 0 {
		b.WriteString("No decisions selected\n")
	}

	n := 0
	for _, r := range rows {
		if r.IsEmpty() {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, rowText(topics, r))
	}
	return b.String()
}

func rowText(topics *association.TopicTable, r models.Row) string {
	text := "(no topic)"
	if topic, ok := topics.Topic(r.TopicID); ok {
		text = topic.Label
		if sub, ok := topic.SubTopic(r.SubTopicID); ok {
			text += " / " + sub.Label
		}
	}
	if r.Correction != models.CorrectionUnset {
		text += " [" + string(r.Correction) + "]"
	}
	return text
}

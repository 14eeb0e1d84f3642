// ABOUTME: Text rendering of decision trees and association rows
// ABOUTME: Shared by taxonomy, show, decide, and edit commands
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
)

// printTree writes every group with its nodes indented by depth. With a
// state, nodes hidden behind an unselected parent are skipped and each
// visible node gets a checkbox.
func printTree(w io.Writer, tax *decision.Taxonomy, state decision.State) {
	for _, g := range tax.Groups() {
		fmt.Fprintf(w, "%s\n", g.Label())
		for _, n := range tax.InGroup(g) {
			indent := strings.Repeat("  ", tax.Depth(n.ID)+1)
			if state == nil {
				fmt.Fprintf(w, "%s%s (%s)\n", indent, n.Label, n.ID)
				continue
			}
			if !tax.Visible(state, n.ID) {
				continue
			}
			mark := " "
			if state[n.ID] {
				mark = "x"
			}
			fmt.Fprintf(w, "%s[%s] %s (%s)\n", indent, mark, n.Label, n.ID)
		}
	}
}

// printRows writes rows numbered from 1 with their ids
func printRows(w io.Writer, topics *association.TopicTable, rows []models.Row) {
	for i, r := range rows {
		topic := "-"
		if t, ok := topics.Topic(r.TopicID); ok {
			topic = t.Label
			if sub, ok := t.SubTopic(r.SubTopicID); ok {
				topic += " / " + sub.Label
			}
		}
		correction := "-"
		if r.Correction != models.CorrectionUnset {
			correction = string(r.Correction)
		}
		fmt.Fprintf(w, "  %d. %s  [%s]  (%s)\n", i+1, topic, correction, r.ID)
	}
}

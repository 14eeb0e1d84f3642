// ABOUTME: Association row linking a review to a topic, sub-topic, and correction
// ABOUTME: Rows form an ordered, user-extensible list inside the review form
package models

import (
	"errors"
	"fmt"
)

// Correction grades the referee's handling of the associated topic
type Correction string

const (
	CorrectionUnset     Correction = ""
	CorrectionCorrect   Correction = "correct"
	CorrectionIncorrect Correction = "incorrect"
	CorrectionDebatable Correction = "debatable"
)

// Corrections lists the selectable values in display order
var Corrections = []Correction{CorrectionCorrect, CorrectionIncorrect, CorrectionDebatable}

// IsValid reports whether c is unset or one of the known values
func (c Correction) IsValid() bool {
	if c == CorrectionUnset {
		return true
	}
	for _, known := range Corrections {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCorrection converts user input into a Correction
func ParseCorrection(s string) (Correction, error) {
	c := Correction(s)
	if !c.IsValid() {
		return CorrectionUnset, fmt.Errorf("invalid correction %q", s)
	}
	return c, nil
}

// Row is one (topic, sub-topic, correction) association
type Row struct {
	ID         string     `json:"id" yaml:"id"`
	TopicID    string     `json:"topic_id,omitempty" yaml:"topic_id,omitempty"`
	SubTopicID string     `json:"sub_topic_id,omitempty" yaml:"sub_topic_id,omitempty"`
	Correction Correction `json:"correction,omitempty" yaml:"correction,omitempty"`
}

// Validate checks the row's own consistency; topic lookups happen elsewhere
func (r Row) Validate() error {
	if r.ID == "" {
		return errors.New("row ID cannot be empty")
	}
	if r.SubTopicID != "" && r.TopicID == "" {
		return fmt.Errorf("row %s: sub-topic without topic", r.ID)
	}
	if !r.Correction.IsValid() {
		return fmt.Errorf("row %s: invalid correction %q", r.ID, r.Correction)
	}
	return nil
}

// IsEmpty reports whether no field has been filled in
func (r Row) IsEmpty() bool {
	return r.TopicID == "" && r.SubTopicID == "" && r.Correction == CorrectionUnset
}

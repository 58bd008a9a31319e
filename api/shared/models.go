/* models.go
 * This file contain the structs and helper functions that are shared between sub packages: the quiz categories,
 * questions, running scores and the user taking the quiz
 */

package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category is one of the four layer 2 networks the quiz scores against
type Category string

const (
	Base     Category = "Base"
	Arbitrum Category = "Arbitrum"
	Optimism Category = "Optimism"
	// ZkSync is never awarded by any question. It still takes part in the max / tie computation so it is kept,
	// but it is dead weight in practice.
	ZkSync Category = "zkSync"
)

// Categories is the fixed iteration order of the score. Ties are reported in this order.
var Categories = [NumCategories]Category{Base, Arbitrum, Optimism, ZkSync}

// NumCategories is the number of scored categories
const NumCategories = 4

// OptionCategories maps an option position to the category it awards
var OptionCategories = [OptionsPerQuestion]Category{Base, Arbitrum, Optimism}

// OptionsPerQuestion is the fixed number of options on every question
const OptionsPerQuestion = 3

// AnonymousUserID is the identifier every result and theme is persisted under
const AnonymousUserID = "anonymous"

var labels = map[Category]string{
	Base:     "Base: Practical Innovator!",
	Arbitrum: "Arbitrum: Technical Explorer!",
	Optimism: "Optimism: Social Idealist!",
	ZkSync:   "zkSync: Crypto Pioneer!",
}

// Label returns the personality label shown for a category
func (c Category) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return labels[ZkSync]
}

// Index returns the position of the category in Categories, or -1 if it is not a known category
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Question is a single multiple choice question. Option i awards OptionCategories[i] the points in Points,
// or 1 if the category has no entry.
type Question struct {
	Position int                        `json:"position"`
	Prompt   string                     `json:"question"`
	Options  [OptionsPerQuestion]string `json:"options"`
	Points   map[Category]int           `json:"-"`
}

// PointsFor returns the points awarded to a category by this question
func (q Question) PointsFor(c Category) int {
	if p, ok := q.Points[c]; ok && p > 0 {
		return p
	}
	return 1
}

// Score is the running tally, indexed by the position of each category in Categories.
// It is a value type so copying a Score never aliases another run.
type Score [NumCategories]int

// Get returns the accumulated value for a category
func (s Score) Get(c Category) int {
	i := c.Index()
	if i < 0 {
		return 0
	}
	return s[i]
}

// Add returns a copy of the score with points added to a category
func (s Score) Add(c Category, points int) Score {
	i := c.Index()
	if i < 0 {
		return s
	}
	s[i] += points
	return s
}

// MarshalJSON encodes the score as an object keyed by category name, in category order
func (s Score) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(fmt.Sprintf(":%d", s[i]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by category name. Unknown keys are ignored.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := make(map[string]int)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Score
	for i, c := range Categories {
		out[i] = raw[string(c)]
	}
	*s = out
	return nil
}

// User is the person taking the quiz
type User struct {
	UserID   string
	Username string
}

package search

import (
	"fmt"
	"strings"

	"github.com/hupe1980/lexgo/model"
)

// Scorer iterates the documents matching a query in increasing DocID order.
//
// Doc and Score are only valid after Next or SkipTo returned true.
type Scorer interface {
	// Next advances to the next matching document.
	// Returns false when the scorer is exhausted.
	Next() bool
	// SkipTo advances to the first matching document >= target.
	// Returns false when no such document exists.
	SkipTo(target model.DocID) bool
	// Doc returns the current document.
	Doc() model.DocID
	// Score returns the score of the current document.
	Score() float32
}

// Explanation describes how a score was computed.
type Explanation struct {
	Value       float32
	Description string
	Details     []*Explanation
}

// String renders the explanation as an indented tree.
func (e *Explanation) String() string {
	var sb strings.Builder
	e.write(&sb, 0)
	return sb.String()
}

func (e *Explanation) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%g = %s\n", e.Value, e.Description)
	for _, d := range e.Details {
		d.write(sb, depth+1)
	}
}

// Package report renders sequence statistics for terminals and log files.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/recommend"
)

const ruleWidth = 70

// EmptyMessage is written when there is nothing to report
const EmptyMessage = "No sequence data available."

type styles struct {
	title   lipgloss.Style
	product lipgloss.Style
	muted   lipgloss.Style
}

// newStyles binds styles to w so colors are dropped when w is not a terminal
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff")),
		product: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#8b949e")),
	}
}

// WriteSequenceReport writes one block per product with its most common
// predecessor, strongest patterns first. names maps ids to display names and
// may be nil; unknown ids are printed as-is.
func WriteSequenceReport(w io.Writer, stats map[models.ProductID]recommend.PredecessorStat, names map[models.ProductID]string) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	st := newStyles(w)
	label := func(id models.ProductID) string {
		if name, ok := names[id]; ok && name != "" {
			return name
		}
		return id.String()
	}

	rows := make([]recommend.PredecessorStat, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Occurrences != rows[j].Occurrences {
			return rows[i].Occurrences > rows[j].Occurrences
		}
		return rows[i].ProductID < rows[j].ProductID
	})

	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	b.WriteString(rule + "\n")
	b.WriteString(st.title.Render("PRODUCT SEQUENCE ANALYSIS") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(st.muted.Render("Most common product added right before each product.") + "\n\n")

	for _, row := range rows {
		b.WriteString(st.product.Render(label(row.ProductID)) + "\n")
		if row.MostCommonPredecessor == nil {
			b.WriteString("   usually added first\n\n")
			continue
		}
		fmt.Fprintf(&b, "   added after: %s\n", label(*row.MostCommonPredecessor))
		fmt.Fprintf(&b, "   occurrences: %d\n\n", row.Occurrences)
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// WriteCSVTable writes rows as comma-separated values.
func WriteCSVTable(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return errors.NewIOError("write csv table", "", err)
	}
	return nil
}

// WriteLatexTable writes rows as a LaTeX tabular environment with one
// centred column per cell of the widest row.
func WriteLatexTable(w io.Writer, rows [][]string) error {
	ncols := lo.Max(lo.Map(rows, func(r []string, _ int) int { return len(r) }))

	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{tabular}{%s}\n", strings.TrimSpace(strings.Repeat("c ", ncols)))
	for _, r := range rows {
		b.WriteString(strings.Join(r, "&"))
		b.WriteString("\\\\\n")
	}
	b.WriteString("\\end{tabular}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.NewIOError("write latex table", "", err)
	}
	return nil
}

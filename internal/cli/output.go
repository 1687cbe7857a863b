package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gnemet/memgrid"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable renders the visible rows with formatted cells and a paging
// footer.
func writeTable(w io.Writer, v memgrid.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	labels := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	for _, row := range v.Rows {
		cells := make([]string, len(v.Columns))
		for i, c := range v.Columns {
			cells[i] = memgrid.FormatCell(c, row[c.Key])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := v.Page
	if p.FilteredCount == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d-%d of %d (page %d/%d)\n",
		p.RangeStart, p.RangeEnd, p.FilteredCount, p.CurrentPage, p.TotalPages)
	return err
}

func writeSummary(w io.Writer, s *memgrid.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", s.GroupBy, strings.Join(s.Measures, "\t"))
	for _, g := range s.Groups {
		vals := make([]string, len(s.Measures))
		for i, m := range s.Measures {
			vals[i] = memgrid.Stringify(g.Values[m])
		}
		fmt.Fprintf(tw, "%s\t%s\n", g.Key, strings.Join(vals, "\t"))
	}
	vals := make([]string, len(s.Measures))
	for i, m := range s.Measures {
		vals[i] = memgrid.Stringify(s.Total[m])
	}
	fmt.Fprintf(tw, "total\t%s\n", strings.Join(vals, "\t"))
	return tw.Flush()
}

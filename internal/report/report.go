// Package report renders comparison results as text and as visual diff
// images.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/superpsx/vramdiff/internal/diff"
)

// WriteText writes the human-readable summary: overall counts and match
// percentage, the per-region breakdown table when regions were supplied,
// the shape hint when it was requested, and a note whenever the reference
// had to be resized.
func WriteText(w io.Writer, res *diff.Result) error {
	fmt.Fprintf(w, "Dump:      %s\n", res.DumpPath)
	fmt.Fprintf(w, "Reference: %s\n", res.RefPath)
	if res.Resized {
		fmt.Fprintf(w, "NOTE: reference resized to %dx%d to match the dump region\n",
			res.Decoded.Width, res.Decoded.Height)
	}
	fmt.Fprintf(w, "Precision: %d bits/channel\n", res.PrecisionBits)
	fmt.Fprintf(w, "Compared:  %d pixels\n", res.Overall.Total)
	fmt.Fprintf(w, "Match:     %.2f%% (%d diff)\n", res.Overall.MatchPercent, res.Overall.DiffCount())
	fmt.Fprintf(w, "  Missing (ref drawn, got black): %d\n", res.Overall.Missing)
	fmt.Fprintf(w, "  Extra   (ref black, got drawn): %d\n", res.Overall.Extra)
	fmt.Fprintf(w, "  Color   (both drawn, differ):   %d\n", res.Overall.ColorDivergent)

	if res.Shape != nil {
		fmt.Fprintf(w, "Shape hint (advisory): %s\n", res.Shape)
	}

	if len(res.Regions) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "REGION\tMATCH\tDIFF\tMISS\tEXTRA\tCOLOR")
		for _, s := range res.Regions {
			fmt.Fprintf(tw, "%s\t%.2f%%\t%d\t%d\t%d\t%d\n",
				s.Name, s.MatchPercent, s.DiffCount(), s.Missing, s.Extra, s.ColorDivergent)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}

// Text renders WriteText into a string. WriteText only fails when the
// underlying writer does, and strings.Builder writes cannot fail.
func Text(res *diff.Result) string {
	var sb strings.Builder
	_ = WriteText(&sb, res)
	return sb.String()
}

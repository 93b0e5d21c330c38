package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Summary writes the human-readable end-of-run report: tallies first, then
// every produced artifact, then the per-package failure breakdown.
func (r Report) Summary(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s: %d packages, %s, %s\n",
		r.RunID,
		r.Total,
		color.Success.Sprintf("%d succeeded", r.Succeeded),
		failureTally(r.Failed),
	)

	if len(r.Artifacts) > 0 {
		fmt.Fprintf(w, "Artifacts (%d):\n", len(r.Artifacts))
		for _, a := range r.Artifacts {
			fmt.Fprintf(w, "  %s\n", a)
		}
	} else {
		fmt.Fprintln(w, color.Danger.Sprint("No artifacts produced"))
	}

	for _, res := range r.Results {
		if res.Succeeded() {
			continue
		}
		fmt.Fprintf(w, "%s %s (%s): %v\n",
			color.Danger.Sprint("FAILED"), res.Unit, res.Kind, res.Err)
	}
}

func failureTally(n int) string {
	if n == 0 {
		return "0 failed"
	}
	return color.Danger.Sprintf("%d failed", n)
}

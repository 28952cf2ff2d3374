package search

import (
	"fmt"
	"io"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/internal/termfmt"
	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
)

// Results are the combined-catalogue rows a search matched, in catalogue
// order.
type Results []metadata.CombinedRow

// Head caps the results at n rows; n < 0 means no cap.
func (r Results) Head(n int) Results {
	if n < 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

type resultField struct {
	label string
	value string
}

// Write renders each result as a block of right-aligned bold labels, one
// block per metric.  full adds release and publisher detail.
func (r Results) Write(w io.Writer, full bool) error {
	for _, row := range r {
		fields := []resultField{
			{"Metric ID", row.MetricID},
			{"Human readable name", row.HumanReadableName},
			{"Description", row.MetricDescription},
			{"HXL tag", row.MetricHxlTag},
			{"Geometry level", row.GeometryLevel},
		}
		if full {
			fields = append(fields,
				resultField{"Country", row.Country},
				resultField{"Source table", row.SourceMetricID},
				resultField{"Release", row.ReleaseName},
				resultField{"Reference period", periodString(row)},
				resultField{"Publisher", row.DataPublisherName},
				resultField{"Source download", row.SourceDownloadURL},
				resultField{"Data file", row.MetricParquetPath},
			)
		}

		width := 0
		for _, f := range fields {
			if len(f.label) > width {
				width = len(f.label)
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			pad := width - len(f.label)
			_, err := fmt.Fprintf(w, "%*s%v  %s\n", pad, "", termfmt.Bold().V(f.label), f.value)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func periodString(row metadata.CombinedRow) string {
	start := row.ReleaseReferencePeriodStart
	end := row.ReleaseReferencePeriodEnd
	if start == "" && end == "" {
		return ""
	}
	return fmt.Sprintf("%s to %s", start, end)
}

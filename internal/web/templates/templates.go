// Package templates holds the templ components of the web host.
//
// Components live in the .templ files; the matching _templ.go files are
// generated with `templ generate` and committed.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/applicants/internal/core"
)

// PageData is everything the full page needs.
type PageData struct {
	View     core.View
	Debounce time.Duration
	MaxSize  int64
}

// ResultsData drives the results region swapped in by ingest and search.
type ResultsData struct {
	View   core.View
	Ingest *core.IngestResult
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}

func searchTrigger(debounce time.Duration) string {
	return fmt.Sprintf("input changed delay:%dms, search", debounce.Milliseconds())
}

// ingestLine summarises an ingest in one sentence.
func ingestLine(res core.IngestResult) string {
	name := res.FileName
	if name == "" {
		name = "file"
	}
	if res.Parsed == 0 {
		return fmt.Sprintf("Loaded 0 applicants from %s.", name)
	}
	return fmt.Sprintf("Loaded %d applicants from %s (#%d to #%d).",
		res.Parsed, name, res.FirstIndex, res.LastIndex)
}

// highlight renders card with the runes matched by query wrapped in <mark>.
func highlight(card, query string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeHighlighted(w, card, core.MatchPositions(card, query))
	})
}

// writeHighlighted escapes card and wraps each run of matched runes in <mark>.
func writeHighlighted(w io.Writer, card string, positions []int) error {
	var b strings.Builder
	if len(positions) == 0 {
		b.WriteString(templ.EscapeString(card))
		_, err := io.WriteString(w, b.String())
		return err
	}

	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	open := false
	i := 0
	for _, r := range card {
		if matched[i] != open {
			if open {
				b.WriteString("</mark>")
			} else {
				b.WriteString("<mark>")
			}
			open = !open
		}
		b.WriteString(templ.EscapeString(string(r)))
		i++
	}
	if open {
		b.WriteString("</mark>")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const pageStyle = `<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1d2430}
main{max-width:48rem;margin:0 auto;padding:1.5rem}
#search{width:100%;font-size:1.1rem;padding:.5rem;margin:1rem 0;box-sizing:border-box}
.card{background:#fff;border:1px solid #d9dde3;border-radius:6px;padding:.75rem 1rem;margin:.5rem 0;white-space:pre-wrap;font-family:ui-monospace,monospace}
.card mark{background:#ffe08a}
.batch-end{border:0;border-top:1px dashed #c3c8cf;margin:1rem 0}
.banner{font-weight:600}.muted{color:#6b7380;font-weight:400}
.alert{background:#fdecec;border:1px solid #f3b4b4;border-radius:6px;padding:.75rem 1rem;margin:.5rem 0}
.summary{background:#eef6ee;border-radius:6px;padding:.5rem 1rem}
</style>`

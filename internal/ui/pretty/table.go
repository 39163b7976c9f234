package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	fileColumnCount  = 3 // FILE, NODES, STATUS
	minFileWidth     = 20
	countColumnWidth = 7
	statusWidth      = 7
	heavySeparator   = "="
	lightSeparator   = "-"

	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// FileRow is one row of the per-file table.
type FileRow struct {
	File   string
	Nodes  int
	Status string
}

// ElemRow is one row of the node count table.
type ElemRow struct {
	Elem  string
	Count int
}

// TableFormatter formats run results as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatFileTable formats one row per processed file.
func (t *TableFormatter) FormatFileTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := FileRows(result)
	fileWidth := t.fileColumnWidth(rows)
	totalWidth := fileWidth + countColumnWidth + statusWidth + tablePadding*fileColumnCount

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %*s  %-*s",
		fileWidth, "FILE",
		countColumnWidth, "NODES",
		statusWidth, "STATUS",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(totalWidth, heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		status := t.styles.Success.Render(fmt.Sprintf("%-*s", statusWidth, row.Status))
		switch row.Status {
		case statusFailed:
			status = t.styles.Failure.Render(fmt.Sprintf("%-*s", statusWidth, row.Status))
		case statusSkipped:
			status = t.styles.Warning.Render(fmt.Sprintf("%-*s", statusWidth, row.Status))
		}

		fmt.Fprintf(&builder, " %-*s  %*d  %s\n",
			fileWidth, truncateFilePath(row.File, fileWidth),
			countColumnWidth, row.Nodes,
			status,
		)
	}

	builder.WriteString(t.separator(totalWidth, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// FormatElemTable formats node counts per elem, most frequent first.
func (t *TableFormatter) FormatElemTable(stats runner.Stats) string {
	rows := ElemRows(stats)
	if len(rows) == 0 {
		return ""
	}

	elemWidth := len("ELEM")
	for _, row := range rows {
		elemWidth = max(elemWidth, len(row.Elem))
	}
	totalWidth := elemWidth + countColumnWidth + tablePadding*2

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %*s", elemWidth, "ELEM", countColumnWidth, "COUNT")
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(totalWidth, lightSeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		fmt.Fprintf(&builder, " %s  %s\n",
			t.styles.Elem.Render(fmt.Sprintf("%-*s", elemWidth, row.Elem)),
			t.styles.SummaryValue.Render(fmt.Sprintf("%*s", countColumnWidth, strconv.Itoa(row.Count))),
		)
	}

	return builder.String()
}

// FileRows converts runner outcomes to table rows in result order.
func FileRows(result *runner.Result) []FileRow {
	rows := make([]FileRow, 0, len(result.Files))
	for _, file := range result.Files {
		row := FileRow{File: file.Path, Status: statusOK}
		switch {
		case file.Skipped:
			row.Status = statusSkipped
		case file.Error != nil:
			row.Status = statusFailed
		case file.Result != nil:
			for _, n := range mdast.Count(file.Result.Root) {
				row.Nodes += n
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ElemRows returns node counts sorted by count descending, then name.
func ElemRows(stats runner.Stats) []ElemRow {
	rows := make([]ElemRow, 0, len(stats.NodesByElem))
	for elem, count := range stats.NodesByElem {
		rows = append(rows, ElemRow{Elem: elem, Count: count})
	}
	slices.SortFunc(rows, func(a, b ElemRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Elem, b.Elem)
	})
	return rows
}

func (t *TableFormatter) fileColumnWidth(rows []FileRow) int {
	width := minFileWidth
	for _, row := range rows {
		width = max(width, len(row.File))
	}
	limit := t.termWidth - countColumnWidth - statusWidth - tablePadding*fileColumnCount
	return max(min(width, limit), minFileWidth)
}

func (t *TableFormatter) separator(width int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, width))
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

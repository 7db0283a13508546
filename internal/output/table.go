package output

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/chunkrun/internal/executor"
	"github.com/aryankumar/chunkrun/pkg/batch"
)

// Item statuses shown in the STATUS column
const (
	StatusSucceeded = "Succeeded"
	StatusFailed    = "Failed"
	StatusUnsent    = "Unsent"
)

// maxCellWidth is where values are truncated outside wide mode
const maxCellWidth = 50

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatResults outputs one row per item response followed by a summary
func (f *TableFormatter) FormatResults(w io.Writer, results Results) error {
	colors := NewColorScheme(w, f.options.NoColor)

	if results.Covered() == 0 {
		fmt.Fprintln(w, "No items")
		f.printSummary(w, results, colors)
		return nil
	}

	table := f.createTable(w)

	if !f.options.NoHeaders {
		headers := []string{"INDEX", "STATUS", "ITEM", "RESPONSE"}
		if !colors.Disabled {
			for i, h := range headers {
				headers[i] = colors.Header(h)
			}
		}
		table.SetHeader(headers)
	}

	sections := []struct {
		status string
		groups []batch.ChunkGroup[any, any]
	}{
		{StatusSucceeded, results.Success},
		{StatusFailed, results.Failed},
		{StatusUnsent, results.Unsent},
	}
	for _, s := range sections {
		for _, resp := range batch.Responses(s.groups) {
			table.Append(f.formatResponseRow(resp, s.status, colors))
		}
	}

	table.Render()

	f.printSummary(w, results, colors)

	return nil
}

// formatResponseRow formats a single item response as a table row
func (f *TableFormatter) formatResponseRow(resp batch.BatchItemResponse[any, any], status string, colors *ColorScheme) []string {
	index := strconv.Itoa(resp.Index)
	if !colors.Disabled {
		index = colors.Index(index)
	}

	var response string
	switch status {
	case StatusFailed:
		response = f.truncate(resp.Error)
		if !colors.Disabled {
			response = colors.Error(response)
		}
	case StatusUnsent:
		response = "-"
	default:
		response = f.truncate(cell(resp.Response))
	}

	if !colors.Disabled {
		status = colors.StatusColor(status)(status)
	}

	return []string{index, status, f.truncate(cell(resp.BatchItem)), response}
}

func cell(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (f *TableFormatter) truncate(s string) string {
	if f.options.Wide || len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}

// formatMap formats a map as a two-column table (key-value pairs), sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints the totals and the success rate of dispatched items
func (f *TableFormatter) printSummary(w io.Writer, results Results, colors *ColorScheme) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d succeeded", results.TotalSuccess)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	failedText := fmt.Sprintf("%d failed", results.TotalFailed)
	if !colors.Disabled && results.TotalFailed > 0 {
		failedText = colors.Error(failedText)
	}

	unsentText := fmt.Sprintf("%d unsent", results.TotalUnsent)
	if !colors.Disabled && results.TotalUnsent > 0 {
		unsentText = colors.Warning(unsentText)
	}

	dispatched := results.TotalSuccess + results.TotalFailed
	rateText := fmt.Sprintf("%.1f%% success", executor.SuccessRate(results.TotalSuccess, dispatched))
	if !colors.Disabled {
		rateText = colors.Info(rateText)
	}

	parts := []string{successText, failedText, unsentText}
	fmt.Fprintf(w, "%s (%s) of %d items\n", strings.Join(parts, ", "), rateText, results.NumItems)
}

package cli

import (
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/AlibekovAA/profile-editor/internal/client/toast"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func printToast(w io.Writer, t toast.Toast) {
	switch t.Severity {
	case toast.SeveritySuccess:
		successColor.Fprintf(w, "✓ %s\n", t.Message)
	case toast.SeverityError:
		errorColor.Fprintf(w, "✗ %s\n", t.Message)
	default:
		infoColor.Fprintf(w, "ℹ %s\n", t.Message)
	}
}

func newKeyValueTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

func printProfile(w io.Writer, p domain.Profile) {
	table := newKeyValueTable(w)
	table.Bulk([][]string{
		{"Name:", p.Name},
		{"Bio:", p.Bio},
		{"Email:", p.Email},
		{"Phone:", p.Phone},
		{"Location:", p.Location},
		{"Updated:", clock.FormatTimestamp(p.UpdatedAt)},
	})
	table.Render()
}

func printFieldErrors(w io.Writer, errs validation.Errors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		errorColor.Fprintf(w, "  %s: %s\n", field, errs[field])
	}
}

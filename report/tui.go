package report

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"worktime/activity"
)

type Viewer interface {
	Show(r Report) error
}

func NewTUI(logger *slog.Logger) Viewer {
	return &tui{logger: logger}
}

type tui struct {
	logger *slog.Logger
	app    *tview.Application
}

// Show blocks until the user presses Esc or q.
func (t *tui) Show(r Report) error {
	if t.app != nil {
		t.app.Stop()
	}
	t.app = tview.NewApplication()

	table := newReportTable(r)
	table.SetFixed(1, 1).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			t.app.Stop()
		}
	})
	table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			t.app.Stop()
			return nil
		}
		return event
	})

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewTextView().SetText(r.Title), 1, 1, false).
		AddItem(table, 0, 1, true).
		AddItem(tview.NewTextView().SetText(summaryText(r)), len(r.Summary)+1, 1, false)

	t.logger.Debug("show report", slog.String("id", r.ID), slog.Int("rows", len(r.Rows)))
	return t.app.SetRoot(root, true).Run()
}

func newReportTable(r Report) *tview.Table {
	table := tview.NewTable().SetBorders(true)
	for col, h := range r.Header {
		table.SetCell(0, col, tview.NewTableCell(h).SetAlign(tview.AlignCenter).SetSelectable(false))
	}
	for i, row := range r.Rows {
		for col, v := range row {
			cell := tview.NewTableCell(v).SetAlign(tview.AlignCenter)
			if col == 0 && i < len(r.RowDates) {
				cell = dateCell(r.RowDates[i])
			}
			table.SetCell(i+1, col, cell)
		}
	}
	return table
}

var week = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func dateCell(d activity.Date) *tview.TableCell {
	color := tcell.ColorWhite
	switch d.Weekday() {
	case time.Saturday:
		color = tcell.ColorBlue
	case time.Sunday:
		color = tcell.ColorRed
	}
	text := " " + d.Time().Format("01/02") + " (" + week[d.Weekday()] + ") "
	return tview.NewTableCell(text).SetTextColor(color).SetAlign(tview.AlignCenter)
}

func summaryText(r Report) string {
	var b strings.Builder
	for _, line := range r.Summary {
		b.WriteString(line.Label)
		b.WriteString(": ")
		b.WriteString(line.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// Package tui provides a live progress view during parsing and a
// browsable path/day result table.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/stitcherio/urlvisits/aggregate"
	"github.com/stitcherio/urlvisits/catalog"
	"github.com/stitcherio/urlvisits/config"
	"github.com/stitcherio/urlvisits/visitparse"
)

// App drives the progress-then-results flow for one parse run.
type App struct {
	app          *tview.Application
	pages        *tview.Pages
	progressView *tview.TextView
	resultsTable *tview.Table
	statusBar    *tview.TextView

	inputPath string

	parseComplete atomic.Bool
	agg           *aggregate.Aggregate
	cat           *catalog.Catalog
	parseErr      error
}

// Run parses inputPath against cat with opts in the background while
// showing a progress animation, then switches to a browsable result table.
func Run(inputPath string, cat *catalog.Catalog, opts config.Options) error {
	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		inputPath: inputPath,
		cat:       cat,
	}
	a.setupUI()

	go func() {
		agg, err := visitparse.Aggregate(inputPath, cat, opts)
		a.agg = agg
		a.parseErr = err
		a.parseComplete.Store(true)
	}()
	go a.animateProgress()

	return a.app.Run()
}

func (a *App) setupUI() {
	a.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(false)
	a.progressView.SetBorder(true).SetTitle(" urlvisits parse progress ").SetTitleAlign(tview.AlignCenter)

	a.resultsTable = tview.NewTable().SetBorders(false).SetFixed(1, 1)
	a.resultsTable.SetBorder(true).SetTitle(" results (path x day) ").SetTitleAlign(tview.AlignCenter)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]Parsing...[white] | Press 'q' to quit")
	a.statusBar.SetBorder(false)

	progressPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.progressView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	resultsPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.resultsTable, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("progress", progressPage, true, true)
	a.pages.AddPage("results", resultsPage, true, false)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			a.app.Stop()
			return nil
		case 'r', 'R':
			if a.parseComplete.Load() {
				a.pages.SwitchToPage("results")
			}
			return nil
		case 'p', 'P':
			a.pages.SwitchToPage("progress")
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
}

// animateProgress shows a spinner until the background parse completes,
// then fills the result table and switches pages automatically.
func (a *App) animateProgress() {
	stages := []string{
		"[yellow]▶[white] Opening catalog...",
		"[blue]▶[white] Splitting input file...",
		"[cyan]▶[white] Parsing slices...",
		"[green]▶[white] Merging partial results...",
	}

	stageIndex := 0
	dots := 0

	for !a.parseComplete.Load() {
		stage := stages[stageIndex%len(stages)]
		dotStr := strings.Repeat(".", dots%4)

		content := fmt.Sprintf(`
[white::b]urlvisits[white::-]

%s%s

[dim]Input file:[white] %s

[dim]Press 'q' to quit[white]
`, stage, dotStr, a.inputPath)

		a.app.QueueUpdateDraw(func() {
			a.progressView.SetText(content)
		})

		time.Sleep(200 * time.Millisecond)
		dots++
		if dots%20 == 0 {
			stageIndex++
		}
	}

	a.app.QueueUpdateDraw(func() {
		a.fillResultsTable()
		if a.parseErr != nil {
			a.statusBar.SetText(fmt.Sprintf("[red]parse failed: %v[white]", a.parseErr))
		} else {
			a.statusBar.SetText("[green]Parse complete[white] | 'r' for results, 'p' for progress, 'q' to quit")
		}
		a.pages.SwitchToPage("results")
	})
}

func (a *App) fillResultsTable() {
	a.resultsTable.Clear()
	a.resultsTable.SetCell(0, 0, tview.NewTableCell("path").SetSelectable(false).SetAttributes(tcell.AttrBold))

	if a.agg == nil {
		return
	}

	days := make([]int, len(a.agg.Days))
	for i := range days {
		days[i] = i
	}
	sort.Slice(days, func(i, j int) bool { return a.agg.Days[days[i]] < a.agg.Days[days[j]] })
	for col, dayID := range days {
		a.resultsTable.SetCell(0, col+1, tview.NewTableCell(a.agg.Days[dayID]).SetSelectable(false).SetAttributes(tcell.AttrBold))
	}

	row := 1
	for _, pid := range a.agg.Order {
		if pid < 0 || pid >= a.cat.P() {
			continue
		}
		a.resultsTable.SetCell(row, 0, tview.NewTableCell(a.cat.EscapedByID[pid]))
		rowData := a.agg.Matrix[pid]
		for col, dayID := range days {
			count := rowData[dayID]
			a.resultsTable.SetCell(row, col+1, tview.NewTableCell(strconv.FormatInt(count, 10)))
		}
		row++
	}
}

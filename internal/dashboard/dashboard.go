// Package dashboard renders a live terminal view of an in-flight run. It is
// optional; the plain progress reporter remains the default surface.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/atomintents/intentload/internal/metrics"
)

// RunInfo holds the run parameters shown in the summary pane.
type RunInfo struct {
	TargetURL       string
	RPS             float64
	DurationSeconds int
	Concurrent      int
}

// Dashboard renders a live terminal UI over the shared collector.
type Dashboard struct {
	collector    *metrics.Collector
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	grid           *ui.Grid
	summaryPara    *widgets.Paragraph
	rpsGauge       *widgets.Gauge
	latencySparkle *widgets.SparklineGroup
	latencyPara    *widgets.Paragraph
	errorList      *widgets.List
	latencyHistory []float64
	startTime      time.Time
	info           RunInfo
}

// New initializes the terminal UI. shutdownFunc is invoked when the user
// presses q or Ctrl-C; the caller is expected to cancel the run, which in
// turn calls Stop.
func New(collector *metrics.Collector, info RunInfo, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		collector:      collector,
		ctx:            ctx,
		cancel:         cancel,
		shutdownFunc:   shutdownFunc,
		latencyHistory: make([]float64, 0, 100),
		startTime:      time.Now(),
		info:           info,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

func (d *Dashboard) initWidgets() {
	sparkline := widgets.NewSparkline()
	sparkline.Title = "P99 (ms)"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}

	d.latencySparkle = widgets.NewSparklineGroup(sparkline)
	d.latencySparkle.Title = "Latency"
	d.latencySparkle.BorderStyle.Fg = ui.ColorCyan

	d.latencyPara = widgets.NewParagraph()
	d.latencyPara.Title = "Latency Stats"
	d.latencyPara.Text = "P50: 0ms\nP99: 0ms\nMax: 0ms"
	d.latencyPara.BorderStyle.Fg = ui.ColorCyan

	d.rpsGauge = widgets.NewGauge()
	d.rpsGauge.Title = "Throughput"
	d.rpsGauge.Percent = 0
	d.rpsGauge.BarColor = ui.ColorBlue
	d.rpsGauge.BorderStyle.Fg = ui.ColorCyan
	d.rpsGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.errorList = widgets.NewList()
	d.errorList.Title = "Errors"
	d.errorList.Rows = []string{"No failures"}
	d.errorList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.errorList.BorderStyle.Fg = ui.ColorCyan

	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.rpsGauge),
		),
		ui.NewRow(0.3,
			ui.NewCol(0.65, d.latencySparkle),
			ui.NewCol(0.35, d.latencyPara),
		),
		ui.NewRow(0.3,
			ui.NewCol(1.0, d.errorList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Wait for Stop() to cancel the context
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.startTime)
	live := d.collector.Live(elapsed)

	if live.P99LatencyMs > 0 {
		d.latencyHistory = append(d.latencyHistory, live.P99LatencyMs)
		if len(d.latencyHistory) > 100 {
			d.latencyHistory = d.latencyHistory[1:]
		}
		d.latencySparkle.Sparklines[0].Data = d.latencyHistory
	}

	// Scale the gauge against the configured target so it reads as
	// attainment rather than an absolute number.
	targetRPS := d.info.RPS
	if targetRPS <= 0 {
		targetRPS = 100
	}
	rpsPercent := int((live.RequestsPerSec / targetRPS) * 100)
	if rpsPercent > 100 {
		rpsPercent = 100
	}
	d.rpsGauge.Percent = rpsPercent
	d.rpsGauge.Label = fmt.Sprintf("%.1f / %.0f RPS", live.RequestsPerSec, targetRPS)

	successRate := 0.0
	if live.Total > 0 {
		successRate = (float64(live.Successes) / float64(live.Total)) * 100
	}

	remaining := time.Duration(d.info.DurationSeconds)*time.Second - elapsed
	if remaining < 0 {
		remaining = 0
	}
	d.summaryPara.Text = fmt.Sprintf(
		"Target: %s | Rate: %.0f/s | Workers cap: %d\nElapsed: %s | Remaining: %s\nSent: %d | OK: %d | Failed: %d | Success: %.1f%%",
		d.info.TargetURL,
		d.info.RPS,
		d.info.Concurrent,
		elapsed.Round(time.Second),
		remaining.Round(time.Second),
		live.Total,
		live.Successes,
		live.Failures,
		successRate,
	)

	d.latencyPara.Text = fmt.Sprintf(
		"P50: %.2fms\nP99: %.2fms\nMax: %.2fms",
		live.P50LatencyMs,
		live.P99LatencyMs,
		live.MaxLatencyMs,
	)

	d.errorList.Rows = formatErrorRows(live.ErrorCounts)
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

func formatErrorRows(counts map[string]int) []string {
	if len(counts) == 0 {
		return []string{"[No failures](fg:green)"}
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 10 {
		keys = keys[:10]
	}
	rows := make([]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, fmt.Sprintf("[%s](fg:red) %d", key, counts[key]))
	}
	return rows
}

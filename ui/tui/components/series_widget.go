package components

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsboard/internal/inventory"
	"opsboard/internal/stats"
	"opsboard/ui/tui/styles"
)

// SeriesWidget draws one hourly time series as a braille line chart.
type SeriesWidget struct {
	Title  string
	Unit   string
	Chart  linechart.Model
	Values []float64
	MaxY   float64
	Width  int
	Height int
}

// NewSeriesWidget sizes the x axis for points samples.
func NewSeriesWidget(title, unit string, width, height, points int, maxY float64) *SeriesWidget {
	maxX := float64(points - 1)
	if maxX < 1 {
		maxX = 1
	}
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, maxX, 0, maxY)
	return &SeriesWidget{
		Title:  title,
		Unit:   unit,
		Chart:  lc,
		MaxY:   maxY,
		Width:  width,
		Height: height,
	}
}

func (c *SeriesWidget) Init() tea.Cmd {
	return nil
}

// SetPoints replaces the plotted samples.
func (c *SeriesWidget) SetPoints(points []inventory.TimeDataPoint) {
	c.Values = make([]float64, len(points))
	for i, p := range points {
		c.Values[i] = p.Value
	}
}

func (c *SeriesWidget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *SeriesWidget) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

// Latest returns the most recent value, or 0 with no samples.
func (c *SeriesWidget) Latest() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return c.Values[len(c.Values)-1]
}

func (c *SeriesWidget) View() string {
	c.Chart.Clear()
	for i := 0; i < len(c.Values)-1; i++ {
		c.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: c.Values[i]},
			canvas.Float64Point{X: float64(i + 1), Y: c.Values[i+1]},
		)
	}
	c.Chart.DrawXYAxisAndLabel()

	title := c.Title
	if len(c.Values) > 0 {
		title = fmt.Sprintf("%s (now %d%s)", c.Title, stats.Round(c.Latest()), c.Unit)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(styles.Special).Render(title),
		c.Chart.View(),
	)
}

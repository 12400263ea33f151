package output

import (
	"fmt"
	"html"
	"strings"

	"github.com/vsinha/kitchen/pkg/application/dto"
)

// ImpactChart lays out a horizontal bar chart of the products a summary consumed
type ImpactChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	MaxQuantity  float64
}

// ImpactBar represents a single product bar
type ImpactBar struct {
	ProductName string
	Unit        string
	Quantity    float64
	Uses        int
	Y           int
	Width       int
	Color       string
}

// NewImpactChart sizes a chart for the summary's product impacts
func NewImpactChart(summary *dto.Summary) *ImpactChart {
	chart := &ImpactChart{
		Width:        900,
		MarginLeft:   200,
		MarginTop:    60,
		MarginRight:  120,
		MarginBottom: 40,
		RowHeight:    28,
	}
	if len(summary.ProductImpacts) == 0 {
		chart.Height = 200
		return chart
	}

	for _, p := range summary.ProductImpacts {
		if p.TotalQuantity > chart.MaxQuantity {
			chart.MaxQuantity = p.TotalQuantity
		}
	}
	chart.Height = chart.MarginTop + len(summary.ProductImpacts)*chart.RowHeight + chart.MarginBottom
	return chart
}

// GenerateSVG creates an SVG representation of the chart
func (ic *ImpactChart) GenerateSVG(summary *dto.Summary) string {
	if len(summary.ProductImpacts) == 0 {
		return ic.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, ic.Width, ic.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.product-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.qty-label { font-family: Arial, sans-serif; font-size: 11px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.impact-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, ic.Width, ic.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">%s</text>`,
		ic.Width/2, html.EscapeString(summary.Period)))

	for _, bar := range ic.createBars(summary.ProductImpacts) {
		ic.drawBar(&svg, bar)
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (ic *ImpactChart) createBars(impacts []dto.ProductImpact) []ImpactBar {
	plotWidth := ic.Width - ic.MarginLeft - ic.MarginRight
	bars := make([]ImpactBar, 0, len(impacts))

	for i, p := range impacts {
		width := 0
		if ic.MaxQuantity > 0 {
			width = int(p.TotalQuantity / ic.MaxQuantity * float64(plotWidth))
		}
		if width < 1 && p.TotalQuantity > 0 {
			width = 1
		}
		bars = append(bars, ImpactBar{
			ProductName: p.ProductName,
			Unit:        p.Unit,
			Quantity:    p.TotalQuantity,
			Uses:        len(p.Consumptions),
			Y:           ic.MarginTop + i*ic.RowHeight,
			Width:       width,
			Color:       ic.getBarColor(i),
		})
	}
	return bars
}

func (ic *ImpactChart) drawBar(svg *strings.Builder, bar ImpactBar) {
	barHeight := ic.RowHeight - 6
	barY := bar.Y + 3

	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="product-label" text-anchor="end">%s</text>`,
		ic.MarginLeft-15, bar.Y+ic.RowHeight/2+4, html.EscapeString(bar.ProductName)))

	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		ic.MarginLeft, bar.Y+ic.RowHeight, ic.Width-ic.MarginRight, bar.Y+ic.RowHeight))

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="impact-bar">`,
		ic.MarginLeft, barY, bar.Width, barHeight, bar.Color))
	svg.WriteString(fmt.Sprintf(`<title>%s: %s %s over %d consumptions</title></rect>`,
		html.EscapeString(bar.ProductName), formatQty(bar.Quantity), html.EscapeString(bar.Unit), bar.Uses))

	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="qty-label">%s %s</text>`,
		ic.MarginLeft+bar.Width+8, bar.Y+ic.RowHeight/2+4, formatQty(bar.Quantity), html.EscapeString(bar.Unit)))
}

// getBarColor cycles through a fixed palette by row
func (ic *ImpactChart) getBarColor(row int) string {
	palette := []string{"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#009688"}
	return palette[row%len(palette)]
}

// generateEmptyChart creates an empty chart when nothing was consumed
func (ic *ImpactChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Consumption Found</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, ic.Width, ic.Height, ic.Width, ic.Height, ic.Width/2, ic.Height/2)
}

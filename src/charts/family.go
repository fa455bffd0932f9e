package charts

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"SocialInsights/src/processor"
)

// FamilyPlot 家庭平均人数与老年人比例的散点图，仅标注 annotated 中的城镇。
// 派生值为 NaN 的城镇不画点。
func FamilyPlot(towns []processor.TownRecord, annotated map[string]bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Scatter Plot of Average Family Size vs. Percentage of Eldelry"
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Text = "Average Family Size"
	p.Y.Label.Text = "Percentage of Eldelry (65 or more years)"

	grid := plotter.NewGrid()
	faint := color.RGBA{R: 200, G: 200, B: 200, A: 60}
	grid.Vertical.Color = faint
	grid.Horizontal.Color = faint
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(grid)

	points, labelXYs, labels := familyPoints(towns, annotated)
	if len(points) == 0 {
		return p, nil
	}

	radius := vg.Points(5)

	fill, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	fill.GlyphStyle.Shape = draw.CircleGlyph{}
	fill.GlyphStyle.Radius = radius
	fill.GlyphStyle.Color = color.NRGBA{B: 255, A: 102}

	// 粉色描边
	edge, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	edge.GlyphStyle.Shape = draw.RingGlyph{}
	edge.GlyphStyle.Radius = radius
	edge.GlyphStyle.Color = Pink

	p.Add(fill, edge)

	if len(labels) > 0 {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labels})
		if err != nil {
			return nil, err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Font.Size = vg.Points(9)
			l.TextStyle[i].Color = color.NRGBA{A: 204}
		}
		l.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
		p.Add(l)
	}

	return p, nil
}

// RenderFamily 绘制散点图并写出 PNG
func RenderFamily(w io.Writer, towns []processor.TownRecord, annotated map[string]bool) error {
	p, err := FamilyPlot(towns, annotated)
	if err != nil {
		return err
	}
	return writePNG(p, w, FamilyWidth, FamilyHeight)
}

// familyPoints 过滤非有限值，返回全部点和需要标注的点
func familyPoints(towns []processor.TownRecord, annotated map[string]bool) (plotter.XYs, []plotter.XY, []string) {
	var points plotter.XYs
	var labelXYs []plotter.XY
	var labels []string
	for _, t := range towns {
		if !isFinite(t.AverageFamily) || !isFinite(t.Elderly) {
			continue
		}
		xy := plotter.XY{X: t.AverageFamily, Y: t.Elderly}
		points = append(points, xy)
		if annotated[t.Town] {
			labelXYs = append(labelXYs, xy)
			labels = append(labels, t.Town)
		}
	}
	return points, labelXYs, labels
}

package charts

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"SocialInsights/src/processor"
)

// GenderPlot 每个城镇两根重叠的柱子(不是堆叠)，男性柱画在女性柱之上
func GenderPlot(towns []processor.TownRecord) (*plot.Plot, error) {
	if len(towns) == 0 {
		return nil, ErrNoData
	}

	names := make([]string, len(towns))
	women := make(plotter.Values, len(towns))
	men := make(plotter.Values, len(towns))
	for i, t := range towns {
		names[i] = t.Town
		women[i] = zeroIfNaN(t.Women)
		men[i] = zeroIfNaN(t.Men)
	}

	p := plot.New()
	p.Title.Text = "Gender by Town"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Town"
	p.Y.Label.Text = "Percentage"

	// 只保留水平虚线网格
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(grid)

	width := GenderWidth * 0.7 / vg.Length(len(towns))

	womenBars, err := plotter.NewBarChart(women, width)
	if err != nil {
		return nil, err
	}
	womenBars.Color = Pink
	womenBars.LineStyle.Width = vg.Length(0)

	menBars, err := plotter.NewBarChart(men, width)
	if err != nil {
		return nil, err
	}
	menBars.Color = Blue
	menBars.LineStyle.Width = vg.Length(0)

	p.Add(womenBars, menBars)
	p.Legend.Add("Women", womenBars)
	p.Legend.Add("Men", menBars)
	p.Legend.Top = true

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0

	return p, nil
}

// RenderGender 绘制柱状图并写出 PNG
func RenderGender(w io.Writer, towns []processor.TownRecord) error {
	p, err := GenderPlot(towns)
	if err != nil {
		return err
	}
	return writePNG(p, w, GenderWidth, GenderHeight)
}

func zeroIfNaN(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return 0
}

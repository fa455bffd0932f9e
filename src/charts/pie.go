package charts

import (
	"fmt"
	"image/color"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"SocialInsights/src/config"
	"SocialInsights/src/processor"
)

// PieChart 示例城镇的性别比例饼图，扇区标签为占比(%1.1f%%)
func PieChart(sample config.SampleTown) (chart.PieChart, error) {
	slices := processor.PieSlices(sample)

	var total float64
	for _, s := range slices {
		if !isFinite(s.Value) || s.Value < 0 {
			return chart.PieChart{}, fmt.Errorf("%w: %s=%v", ErrNoData, s.Label, s.Value)
		}
		total += s.Value
	}
	if total == 0 {
		return chart.PieChart{}, ErrNoData
	}

	fills := []color.RGBA{Pink, Blue}
	values := make([]chart.Value, len(slices))
	for i, s := range slices {
		values[i] = chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s %1.1f%%", s.Label, s.Value/total*100),
			Style: chart.Style{
				FillColor:   toDrawing(fills[i%len(fills)]),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorBlack,
			},
		}
	}

	return chart.PieChart{
		Title:  fmt.Sprintf("Gender Distribution in %s", sample.Town),
		Width:  PieSize,
		Height: PieSize,
		Values: values,
	}, nil
}

// RenderPie 绘制饼图并写出 PNG
func RenderPie(w io.Writer, sample config.SampleTown) error {
	pie, err := PieChart(sample)
	if err != nil {
		return err
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("绘制饼图失败: %w", err)
	}
	return nil
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Package charts 把流水线结果绘制成 PNG 图片
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// ErrNoData 没有可绘制的数据
var ErrNoData = errors.New("没有可绘制的数据")

var (
	Pink  = color.RGBA{R: 255, G: 192, B: 203, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// 各图尺寸(英寸)
const (
	GenderWidth  = 14 * vg.Inch
	GenderHeight = 8 * vg.Inch
	FamilyWidth  = 10 * vg.Inch
	FamilyHeight = 6 * vg.Inch
	PieSize      = 800 // 像素，相当于 8x8 英寸 @100dpi
)

// writePNG 以 PNG 格式输出 gonum 图表
func writePNG(p *plot.Plot, w io.Writer, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("创建图片写入器失败: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("写入图片失败: %w", err)
	}
	return nil
}

// PNG 把任一绘制函数的结果收集为字节
func PNG(render func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

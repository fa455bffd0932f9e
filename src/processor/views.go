package processor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"SocialInsights/src/config"
)

// ErrUnknownTown 提交的示例城镇不在示例表中
var ErrUnknownTown = errors.New("未知的城镇")

// ViewState 一次页面渲染所需的全部控件取值
type ViewState struct {
	RowCount   int      // 柱状图显示的行数
	Annotate   []string // 散点图需要标注的城镇
	SampleTown string   // 下拉框选择的示例城镇
	Submitted  bool     // 只有提交表单后才绘制饼图
}

// DefaultViewState 首次访问时的控件状态
func DefaultViewState(dc *config.DataConfig) ViewState {
	sample := dc.GetSample()
	return ViewState{
		RowCount:   dc.GetSlider().Default,
		Annotate:   dc.GetDefaultTowns(),
		SampleTown: sample[0].Town,
	}
}

// ClampRowCount 将输入对齐到最近的步长并限制在 [Min, Max] 内
func ClampRowCount(n int, s config.Slider) int {
	if n <= s.Min {
		return s.Min
	}
	if n >= s.Max {
		return alignDown(s.Max, s)
	}
	steps := (n - s.Min + s.Step/2) / s.Step
	return alignDown(min(s.Min+steps*s.Step, s.Max), s)
}

func alignDown(n int, s config.Slider) int {
	return s.Min + (n-s.Min)/s.Step*s.Step
}

// SliderSteps 滑块的所有可选值
func SliderSteps(s config.Slider) []int {
	var steps []int
	for v := s.Min; v <= s.Max; v += s.Step {
		steps = append(steps, v)
	}
	return steps
}

// FirstN 按源数据顺序取前 n 行(不是排序后的前 n 名)
func FirstN(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n >= df.Nrow() || df.Nrow() == 0 {
		return df
	}
	if n < 1 {
		n = 1
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// AnnotationSet 只保留数据表中确实存在的城镇，名称精确匹配
func AnnotationSet(towns []TownRecord, selected []string) map[string]bool {
	present := make(map[string]bool, len(towns))
	for _, t := range towns {
		present[t.Town] = true
	}
	set := make(map[string]bool)
	for _, name := range selected {
		if present[name] {
			set[name] = true
		}
	}
	return set
}

// SampleTable 把示例行构造成与原数据同名列的数据表
func SampleTable(sample []config.SampleTown, cols config.Columns) dataframe.DataFrame {
	records := [][]string{{cols.Town, cols.Women, cols.Men}}
	for _, s := range sample {
		records = append(records, []string{
			s.Town,
			strconv.FormatFloat(s.Women, 'f', -1, 64),
			strconv.FormatFloat(s.Men, 'f', -1, 64),
		})
	}
	return dataframe.LoadRecords(records,
		dataframe.WithTypes(map[string]series.Type{
			cols.Town:  series.String,
			cols.Women: series.Float,
			cols.Men:   series.Float,
		}),
	)
}

// SelectSample 在示例表中查找唯一的一行
func SelectSample(table dataframe.DataFrame, cols config.Columns, town string) (config.SampleTown, error) {
	if table.Err != nil {
		return config.SampleTown{}, fmt.Errorf("示例表无效: %w", table.Err)
	}
	row := table.Filter(dataframe.F{
		Colname:    cols.Town,
		Comparator: series.Eq,
		Comparando: town,
	})
	if row.Err != nil {
		return config.SampleTown{}, fmt.Errorf("筛选示例表失败: %w", row.Err)
	}
	if row.Nrow() == 0 {
		return config.SampleTown{}, fmt.Errorf("%w: %q", ErrUnknownTown, town)
	}
	return config.SampleTown{
		Town:  row.Col(cols.Town).Records()[0],
		Women: row.Col(cols.Women).Float()[0],
		Men:   row.Col(cols.Men).Float()[0],
	}, nil
}

// PieSlice 饼图的一个扇区
type PieSlice struct {
	Label string
	Value float64
}

// PieSlices 女性在前，男性在后
func PieSlices(s config.SampleTown) []PieSlice {
	return []PieSlice{
		{Label: "Women", Value: s.Women},
		{Label: "Men", Value: s.Men},
	}
}

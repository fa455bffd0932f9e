package processor

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"SocialInsights/src/config"
)

// Loader 数据源，每次调用都重新获取数据
type Loader interface {
	Load(ctx context.Context) (dataframe.DataFrame, error)
}

// Result 一次完整运行的产物
type Result struct {
	Raw       dataframe.DataFrame // 加载得到的原始表，用于描述性统计
	Table     dataframe.DataFrame // 规整并追加派生列后的完整数据表
	Towns     []TownRecord        // 全部城镇(散点图)
	Visible   []TownRecord        // 前 RowCount 个城镇(柱状图)
	Annotated map[string]bool
	State     ViewState // 归一化后的控件状态
	Sample    *config.SampleTown
}

// Run 执行一次完整流水线：加载、规整、派生、筛选。
// 任一步骤失败都会中止本次运行，不做重试。
func Run(ctx context.Context, loader Loader, dc *config.DataConfig, state ViewState) (*Result, error) {
	cols := dc.GetColumns()
	state.RowCount = ClampRowCount(state.RowCount, dc.GetSlider())

	// 示例表不依赖数据源，先校验提交的城镇
	var sample *config.SampleTown
	if state.Submitted {
		s, err := SelectSample(SampleTable(dc.GetSample(), cols), cols, state.SampleTown)
		if err != nil {
			return nil, err
		}
		sample = &s
	}

	df, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载数据失败: %w", err)
	}

	p := NewDataProcessor(df, cols, dc.GetBucketWeights())
	if err := p.CleanData(); err != nil {
		return nil, err
	}
	if err := p.CalculateMetrics(); err != nil {
		return nil, err
	}
	table := p.DataFrame()

	towns, err := Towns(table, cols)
	if err != nil {
		return nil, err
	}
	visible, err := Towns(FirstN(table, state.RowCount), cols)
	if err != nil {
		return nil, err
	}

	return &Result{
		Raw:       df,
		Table:     table,
		Towns:     towns,
		Visible:   visible,
		Annotated: AnnotationSet(towns, state.Annotate),
		State:     state,
		Sample:    sample,
	}, nil
}

// LoaderFunc 把普通函数适配为 Loader
type LoaderFunc func(ctx context.Context) (dataframe.DataFrame, error)

func (f LoaderFunc) Load(ctx context.Context) (dataframe.DataFrame, error) {
	return f(ctx)
}

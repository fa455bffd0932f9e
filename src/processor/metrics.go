package processor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"SocialInsights/src/config"
	"SocialInsights/src/utils"
)

// ErrMissingColumn 数据表缺少必需的列
var ErrMissingColumn = errors.New("缺少必需的列")

// AverageFamilySize 按三个人数区间的中值加权求平均。
// 三个区间合计为0时返回NaN，由调用方原样保留。
func AverageFamilySize(b1, b2, b3 float64, w [3]float64) float64 {
	total := b1 + b2 + b3
	if total == 0 {
		return math.NaN()
	}
	return (w[0]*b1 + w[1]*b2 + w[2]*b3) / total
}

// AddAverageFamilySize 计算每个城镇的家庭平均人数并作为新列追加
func AddAverageFamilySize(df dataframe.DataFrame, cols config.Columns, w [3]float64) (dataframe.DataFrame, error) {
	buckets := []string{cols.FamilySmall, cols.FamilyMedium, cols.FamilyLarge}
	if err := requireColumns(df, buckets...); err != nil {
		return df, err
	}

	b1 := df.Col(buckets[0]).Float()
	b2 := df.Col(buckets[1]).Float()
	b3 := df.Col(buckets[2]).Float()

	avg := make([]float64, df.Nrow())
	for i := range avg {
		avg[i] = AverageFamilySize(b1[i], b2[i], b3[i], w)
	}

	out := df.Mutate(series.New(avg, series.Float, cols.AverageFamily))
	if out.Err != nil {
		return df, fmt.Errorf("追加派生列失败: %w", out.Err)
	}
	return out, nil
}

func requireColumns(df dataframe.DataFrame, names ...string) error {
	for _, name := range names {
		if !utils.HasColumn(df, name) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	return nil
}

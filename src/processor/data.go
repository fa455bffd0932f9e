// data.go
package processor

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"SocialInsights/src/config"
)

// DataProcessor 对一次加载得到的数据表做清洗和派生指标计算
type DataProcessor struct {
	df      dataframe.DataFrame
	cols    config.Columns
	weights [3]float64
}

func NewDataProcessor(df dataframe.DataFrame, cols config.Columns, weights [3]float64) *DataProcessor {
	return &DataProcessor{df: df, cols: cols, weights: weights}
}

// CleanData 只做列名去空白，不做其他校验
func (p *DataProcessor) CleanData() error {
	if p.df.Err != nil {
		return fmt.Errorf("数据表无效: %w", p.df.Err)
	}
	p.df = Normalize(p.df)
	if p.df.Err != nil {
		return fmt.Errorf("列名规整失败: %w", p.df.Err)
	}
	return nil
}

// CalculateMetrics 追加家庭平均人数列
func (p *DataProcessor) CalculateMetrics() error {
	df, err := AddAverageFamilySize(p.df, p.cols, p.weights)
	if err != nil {
		return err
	}
	p.df = df
	return nil
}

func (p *DataProcessor) DataFrame() dataframe.DataFrame {
	return p.df
}

// Normalize 将每一列重命名为去掉首尾空白后的名字
func Normalize(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		trimmed := strings.TrimSpace(name)
		if trimmed == name {
			continue
		}
		df = df.Rename(trimmed, name)
		if df.Err != nil {
			return df
		}
	}
	return df
}

package processor

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"SocialInsights/src/config"
	"SocialInsights/src/utils"
)

// Summary 数据表的描述性统计，首列为统计量名称
type Summary struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Describe 对数据表做描述性统计(均值、中位数、标准差、分位数等)
func Describe(df dataframe.DataFrame) (Summary, error) {
	desc := df.Describe()
	if desc.Err != nil {
		return Summary{}, fmt.Errorf("统计失败: %w", desc.Err)
	}
	records := desc.Records()
	if len(records) == 0 {
		return Summary{}, nil
	}
	return Summary{Header: records[0], Rows: records[1:]}, nil
}

// Duplicate 重复出现的城镇名
type Duplicate struct {
	Town  string `json:"town"`
	Count int    `json:"count"`
}

// DuplicateTowns 仅用于提示，不修改数据表
func DuplicateTowns(df dataframe.DataFrame, cols config.Columns) ([]Duplicate, error) {
	if err := requireColumns(df, cols.Town); err != nil {
		return nil, err
	}
	counts := utils.DuplicateValues(df.Col(cols.Town).Records())

	dups := make([]Duplicate, 0, len(counts))
	for town, n := range counts {
		dups = append(dups, Duplicate{Town: town, Count: n})
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Count != dups[j].Count {
			return dups[i].Count > dups[j].Count
		}
		return dups[i].Town < dups[j].Town
	})
	return dups, nil
}

package processor

import (
	"encoding/json"
	"math"

	"github.com/go-gota/gota/dataframe"

	"SocialInsights/src/config"
)

// TownRecord 一个城镇的全部指标
type TownRecord struct {
	Town          string
	Women         float64
	Men           float64
	FamilySmall   float64
	FamilyMedium  float64
	FamilyLarge   float64
	Elderly       float64
	AverageFamily float64
}

// MarshalJSON 非有限值输出为 null
func (r TownRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Town          string   `json:"town"`
		Women         *float64 `json:"women"`
		Men           *float64 `json:"men"`
		FamilySmall   *float64 `json:"family_small"`
		FamilyMedium  *float64 `json:"family_medium"`
		FamilyLarge   *float64 `json:"family_large"`
		Elderly       *float64 `json:"elderly"`
		AverageFamily *float64 `json:"average_family"`
	}{
		Town:          r.Town,
		Women:         finite(r.Women),
		Men:           finite(r.Men),
		FamilySmall:   finite(r.FamilySmall),
		FamilyMedium:  finite(r.FamilyMedium),
		FamilyLarge:   finite(r.FamilyLarge),
		Elderly:       finite(r.Elderly),
		AverageFamily: finite(r.AverageFamily),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Towns 按源数据顺序把数据表转换为城镇记录，要求派生列已存在
func Towns(df dataframe.DataFrame, cols config.Columns) ([]TownRecord, error) {
	if err := requireColumns(df, cols.Town, cols.Women, cols.Men,
		cols.FamilySmall, cols.FamilyMedium, cols.FamilyLarge,
		cols.Elderly, cols.AverageFamily); err != nil {
		return nil, err
	}

	names := df.Col(cols.Town).Records()
	women := df.Col(cols.Women).Float()
	men := df.Col(cols.Men).Float()
	small := df.Col(cols.FamilySmall).Float()
	medium := df.Col(cols.FamilyMedium).Float()
	large := df.Col(cols.FamilyLarge).Float()
	elderly := df.Col(cols.Elderly).Float()
	avg := df.Col(cols.AverageFamily).Float()

	records := make([]TownRecord, len(names))
	for i, name := range names {
		records[i] = TownRecord{
			Town:          name,
			Women:         women[i],
			Men:           men[i],
			FamilySmall:   small[i],
			FamilyMedium:  medium[i],
			FamilyLarge:   large[i],
			Elderly:       elderly[i],
			AverageFamily: avg[i],
		}
	}
	return records, nil
}

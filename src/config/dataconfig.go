package config

import (
	"fmt"
)

// Columns 数据集中各指标对应的列名
type Columns struct {
	Town          string `mapstructure:"town" json:"town" yaml:"town"`
	Women         string `mapstructure:"women" json:"women" yaml:"women"`
	Men           string `mapstructure:"men" json:"men" yaml:"men"`
	FamilySmall   string `mapstructure:"family_small" json:"family_small" yaml:"family_small"`    // 1-3人
	FamilyMedium  string `mapstructure:"family_medium" json:"family_medium" yaml:"family_medium"` // 4-6人
	FamilyLarge   string `mapstructure:"family_large" json:"family_large" yaml:"family_large"`    // 7人及以上
	Elderly       string `mapstructure:"elderly" json:"elderly" yaml:"elderly"`
	AverageFamily string `mapstructure:"average_family" json:"average_family" yaml:"average_family"` // 派生列
}

// Slider 行数滑块的取值范围
type Slider struct {
	Min     int `mapstructure:"min" json:"min" yaml:"min"`
	Max     int `mapstructure:"max" json:"max" yaml:"max"`
	Step    int `mapstructure:"step" json:"step" yaml:"step"`
	Default int `mapstructure:"default" json:"default" yaml:"default"`
}

// SampleTown 饼图使用的示例数据行
type SampleTown struct {
	Town  string  `mapstructure:"town" json:"town" yaml:"town"`
	Women float64 `mapstructure:"women" json:"women" yaml:"women"`
	Men   float64 `mapstructure:"men" json:"men" yaml:"men"`
}

// DataConfig 数据相关配置，可热加载
type DataConfig struct {
	Columns       Columns      `mapstructure:"columns" json:"columns" yaml:"columns"`
	BucketWeights []float64    `mapstructure:"bucket_weights" json:"bucket_weights" yaml:"bucket_weights"`
	Slider        Slider       `mapstructure:"slider" json:"slider" yaml:"slider"`
	DefaultTowns  []string     `mapstructure:"default_towns" json:"default_towns" yaml:"default_towns"`
	Sample        []SampleTown `mapstructure:"sample" json:"sample" yaml:"sample"`
}

// DefaultDataConfig 返回与原始数据集匹配的默认数据配置
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Columns: Columns{
			Town:          "Town",
			Women:         "Percentage of Women",
			Men:           "Percentage of Men",
			FamilySmall:   "Average family size - 1 to 3 members",
			FamilyMedium:  "Average family size - 4 to 6 members",
			FamilyLarge:   "Average family size - 7 or more members",
			Elderly:       "Percentage of Eldelry - 65 or more years",
			AverageFamily: "Average family size",
		},
		BucketWeights: []float64{1.5, 5, 7},
		Slider:        Slider{Min: 10, Max: 70, Step: 10, Default: 70},
		DefaultTowns: []string{
			"Aain El Saydeh", "Aabadiyeh", "Aachqout", "Khreibet Baabda", "Aabdine", "Fourzol",
		},
		Sample: []SampleTown{
			{Town: "Town A", Women: 55, Men: 45},
			{Town: "Town B", Women: 60, Men: 40},
			{Town: "Town C", Women: 65, Men: 35},
		},
	}
}

// ReadDataConfig 读取数据配置文件，缺省项取 DefaultDataConfig
func ReadDataConfig(path string) (*DataConfig, error) {
	v := newViper()
	def := DefaultDataConfig()
	v.SetDefault("columns.town", def.Columns.Town)
	v.SetDefault("columns.women", def.Columns.Women)
	v.SetDefault("columns.men", def.Columns.Men)
	v.SetDefault("columns.family_small", def.Columns.FamilySmall)
	v.SetDefault("columns.family_medium", def.Columns.FamilyMedium)
	v.SetDefault("columns.family_large", def.Columns.FamilyLarge)
	v.SetDefault("columns.elderly", def.Columns.Elderly)
	v.SetDefault("columns.average_family", def.Columns.AverageFamily)
	v.SetDefault("bucket_weights", def.BucketWeights)
	v.SetDefault("slider.min", def.Slider.Min)
	v.SetDefault("slider.max", def.Slider.Max)
	v.SetDefault("slider.step", def.Slider.Step)
	v.SetDefault("slider.default", def.Slider.Default)
	v.SetDefault("default_towns", def.DefaultTowns)

	sample := make([]map[string]interface{}, 0, len(def.Sample))
	for _, s := range def.Sample {
		sample = append(sample, map[string]interface{}{"town": s.Town, "women": s.Women, "men": s.Men})
	}
	v.SetDefault("sample", sample)

	if err := readOptional(v, path); err != nil {
		return nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	var dcfg DataConfig
	if err := v.Unmarshal(&dcfg); err != nil {
		return nil, fmt.Errorf("解析DataConfig失败: %w", err)
	}
	if err := dcfg.validate(); err != nil {
		return nil, err
	}
	return &dcfg, nil
}

func (dc *DataConfig) validate() error {
	if len(dc.BucketWeights) != 3 {
		return fmt.Errorf("bucket_weights 需要3个权重, 实际 %d 个", len(dc.BucketWeights))
	}
	s := dc.Slider
	if s.Step <= 0 || s.Min < 1 || s.Min > s.Max {
		return fmt.Errorf("slider 配置无效: %+v", s)
	}
	if len(dc.Sample) == 0 {
		return fmt.Errorf("sample 至少需要一行")
	}
	return nil
}

func (dc *DataConfig) GetColumns() Columns {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Columns
}

func (dc *DataConfig) GetBucketWeights() [3]float64 {
	mu.RLock()
	defer mu.RUnlock()
	var w [3]float64
	copy(w[:], dc.BucketWeights)
	return w
}

func (dc *DataConfig) GetSlider() Slider {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Slider
}

func (dc *DataConfig) GetDefaultTowns() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), dc.DefaultTowns...)
}

func (dc *DataConfig) GetSample() []SampleTown {
	mu.RLock()
	defer mu.RUnlock()
	return append([]SampleTown(nil), dc.Sample...)
}

// Update 用新加载的配置替换当前内容(热加载)
func (dc *DataConfig) Update(next *DataConfig) {
	mu.Lock()
	defer mu.Unlock()
	dc.Columns = next.Columns
	dc.BucketWeights = append([]float64(nil), next.BucketWeights...)
	dc.Slider = next.Slider
	dc.DefaultTowns = append([]string(nil), next.DefaultTowns...)
	dc.Sample = append([]SampleTown(nil), next.Sample...)
}

package utils

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// DuplicateValues 统计出现多于一次的值及其次数
func DuplicateValues(values []string) map[string]int {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	for v, n := range counts {
		if n < 2 {
			delete(counts, v)
		}
	}
	return counts
}

// SaveToExcel 把数据表写入 xlsx，首行为列名，非有限数值留空
func SaveToExcel(df dataframe.DataFrame, filePath, sheetName string) error {
	if df.Err != nil {
		return fmt.Errorf("数据表无效: %w", df.Err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("设置工作表名失败: %w", err)
		}
	}

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
			val := col.Val(rowIdx)
			if v, ok := val.(float64); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

// SaveToCSV 把数据表写入 csv
func SaveToCSV(df dataframe.DataFrame, filePath string) error {
	if df.Err != nil {
		return fmt.Errorf("数据表无效: %w", df.Err)
	}
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("创建CSV文件失败: %w", err)
	}
	if err := df.WriteCSV(out); err != nil {
		out.Close()
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	return out.Close()
}

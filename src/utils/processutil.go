package utils

import (
	"fmt"

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
	return Contains(df.Names(), name)
}

// Unique 按首次出现的顺序去重
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Sheet 导出到Excel的一张工作表
type Sheet struct {
	Name  string
	Frame dataframe.DataFrame
}

// SaveToExcel 每个DataFrame写入一张工作表，首行为列名
func SaveToExcel(filePath string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有需要导出的数据")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.Name)
		if err != nil {
			return fmt.Errorf("创建工作表 %s 失败: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	// 删除默认工作表
	if !Contains(sheetNames(sheets), "Sheet1") {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("删除默认工作表失败: %w", err)
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	df := sheet.Frame

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, name); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", sheet.Name, err)
		}
	}

	// 写入数据
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			val := df.Col(colName).Val(rowIdx)
			if err := f.SetCellValue(sheet.Name, cell, val); err != nil {
				return fmt.Errorf("写入 %s 失败: %w", sheet.Name, err)
			}
		}
	}
	return nil
}

func sheetNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return names
}

package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"FlightDelayAnalysis/src/datasource/cassandra"
	"FlightDelayAnalysis/src/utils"
)

// DelayTable 一次查询结果对应的表，列名与查询投影一致
type DelayTable struct {
	Name string // 查询名称
	Key  string // 分组列
	dataframe.DataFrame
}

// Tabulate 将查询结果按投影列转换为DataFrame，保持驱动返回的行序
func Tabulate(stmt cassandra.Statement, records []cassandra.DelayRecord) (DelayTable, error) {
	cols := make([]series.Series, len(stmt.Columns))

	for j, c := range stmt.Columns {
		var (
			s   series.Series
			err error
		)
		switch c.Kind {
		case cassandra.KindInt:
			s, err = intColumn(c.Name, j, records)
		case cassandra.KindFloat:
			s, err = floatColumn(c.Name, j, records)
		default:
			s, err = textColumn(c.Name, j, records)
		}
		if err != nil {
			return DelayTable{}, fmt.Errorf("%s: %w", stmt.Name, err)
		}
		cols[j] = s
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return DelayTable{}, fmt.Errorf("%s: 构建DataFrame失败: %w", stmt.Name, df.Err)
	}
	return DelayTable{Name: stmt.Name, Key: stmt.Key(), DataFrame: df}, nil
}

func cell(records []cassandra.DelayRecord, row, col int) (interface{}, error) {
	rec := records[row]
	if col >= len(rec) {
		return nil, fmt.Errorf("第%d行只有%d列", row, len(rec))
	}
	return rec[col], nil
}

func intColumn(name string, col int, records []cassandra.DelayRecord) (series.Series, error) {
	values := make([]int, len(records))
	for i := range records {
		v, err := cell(records, i, col)
		if err != nil {
			return series.Series{}, err
		}
		switch n := v.(type) {
		case int:
			values[i] = n
		case int32:
			values[i] = int(n)
		case int64:
			values[i] = int(n)
		default:
			return series.Series{}, fmt.Errorf("列 %s 第%d行类型错误: %T", name, i, v)
		}
	}
	return series.New(values, series.Int, name), nil
}

func floatColumn(name string, col int, records []cassandra.DelayRecord) (series.Series, error) {
	values := make([]float64, len(records))
	for i := range records {
		v, err := cell(records, i, col)
		if err != nil {
			return series.Series{}, err
		}
		switch n := v.(type) {
		case float64:
			values[i] = n
		case float32:
			values[i] = float64(n)
		default:
			return series.Series{}, fmt.Errorf("列 %s 第%d行类型错误: %T", name, i, v)
		}
	}
	return series.New(values, series.Float, name), nil
}

func textColumn(name string, col int, records []cassandra.DelayRecord) (series.Series, error) {
	values := make([]string, len(records))
	for i := range records {
		v, err := cell(records, i, col)
		if err != nil {
			return series.Series{}, err
		}
		s, ok := v.(string)
		if !ok {
			return series.Series{}, fmt.Errorf("列 %s 第%d行类型错误: %T", name, i, v)
		}
		values[i] = s
	}
	return series.New(values, series.String, name), nil
}

// Floats 返回数值列
func (t DelayTable) Floats(col string) ([]float64, error) {
	if !utils.HasColumn(t.DataFrame, col) {
		return nil, fmt.Errorf("%s 中没有列 %s", t.Name, col)
	}
	return t.Col(col).Float(), nil
}

// Labels 返回列的文本形式，用作类别
func (t DelayTable) Labels(col string) ([]string, error) {
	if !utils.HasColumn(t.DataFrame, col) {
		return nil, fmt.Errorf("%s 中没有列 %s", t.Name, col)
	}
	return t.Col(col).Records(), nil
}

// Sheet 导出用的工作表
func (t DelayTable) Sheet() utils.Sheet {
	return utils.Sheet{Name: t.Name, Frame: t.DataFrame}
}

package processor

import (
	"gonum.org/v1/gonum/stat"

	"FlightDelayAnalysis/src/utils"
)

// Grouped 按分组键求均值后的结果
type Grouped struct {
	Keys  []string             // 首次出现顺序
	Means map[string][]float64 // 列名 -> 与Keys对齐的均值
}

// GroupMean 按分组列聚合，重复键取算术平均
func GroupMean(t DelayTable, cols ...string) (Grouped, error) {
	keys, err := t.Labels(t.Key)
	if err != nil {
		return Grouped{}, err
	}

	order := utils.Unique(keys)
	index := make(map[string]int, len(order))
	for i, k := range order {
		index[k] = i
	}

	g := Grouped{Keys: order, Means: make(map[string][]float64, len(cols))}
	for _, col := range cols {
		values, err := t.Floats(col)
		if err != nil {
			return Grouped{}, err
		}

		buckets := make([][]float64, len(order))
		for i, v := range values {
			k := index[keys[i]]
			buckets[k] = append(buckets[k], v)
		}

		means := make([]float64, len(order))
		for i, b := range buckets {
			means[i] = stat.Mean(b, nil)
		}
		g.Means[col] = means
	}
	return g, nil
}

// Categories 类别轴映射：去重后的类别，以及每行所在的位置
func Categories(labels []string) ([]string, []float64) {
	cats := utils.Unique(labels)
	pos := make(map[string]float64, len(cats))
	for i, c := range cats {
		pos[c] = float64(i)
	}

	xs := make([]float64, len(labels))
	for i, l := range labels {
		xs[i] = pos[l]
	}
	return cats, xs
}

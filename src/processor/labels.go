package processor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"FlightDelayAnalysis/src/config"
)

var titleCaser = cases.Title(language.English)

// Label 列的图例名称：优先使用数据配置，否则由列名推导
// 例如 average_late_aircraft_delay -> Late Aircraft Delay
func Label(dcfg *config.DataConfig, column string) string {
	if dcfg != nil {
		if label, ok := dcfg.GetLabel(column); ok && label != "" {
			return label
		}
	}
	name := strings.TrimPrefix(column, "average_")
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

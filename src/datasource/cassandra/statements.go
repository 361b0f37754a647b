package cassandra

// Kind 列值类型
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "double"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column 查询投影中的一列
type Column struct {
	Name string
	Kind Kind
}

// Statement 一条固定的只读查询
type Statement struct {
	Name    string
	Table   string
	CQL     string
	Columns []Column
}

// Projection 返回投影列名，顺序与CQL一致
func (s Statement) Projection() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Key 分组列，即投影中的第一列
func (s Statement) Key() string {
	if len(s.Columns) == 0 {
		return ""
	}
	return s.Columns[0].Name
}

// DelayRecord 一行预聚合延误统计，值的顺序与投影一致
type DelayRecord []interface{}

const keyspacesCQL = "SELECT keyspace_name FROM system_schema.keyspaces"

var (
	colMonth        = Column{"flight_month", KindInt}
	colAirline      = Column{"marketing_airline_network", KindText}
	colCity         = Column{"origin_city_name", KindText}
	colArrival      = Column{"average_arrival_delay", KindFloat}
	colDeparture    = Column{"average_departure_delay", KindFloat}
	colCarrier      = Column{"average_carrier_delay", KindFloat}
	colWeather      = Column{"average_weather_delay", KindFloat}
	colNAS          = Column{"average_nas_delay", KindFloat}
	colSecurity     = Column{"average_security_delay", KindFloat}
	colLateAircraft = Column{"average_late_aircraft_delay", KindFloat}
)

var (
	MonthlyDelays = Statement{
		Name:    "monthly_delays",
		Table:   "monthly_delay_stats",
		CQL:     "SELECT flight_month, average_arrival_delay, average_departure_delay FROM monthly_delay_stats",
		Columns: []Column{colMonth, colArrival, colDeparture},
	}

	DelayCauses = Statement{
		Name:  "delay_causes",
		Table: "airline_delay_stats",
		CQL: "SELECT marketing_airline_network, average_carrier_delay, average_weather_delay, " +
			"average_nas_delay, average_security_delay, average_late_aircraft_delay FROM airline_delay_stats",
		Columns: []Column{colAirline, colCarrier, colWeather, colNAS, colSecurity, colLateAircraft},
	}

	AirlineDelayBreakdown = Statement{
		Name:  "airline_delay_breakdown",
		Table: "airline_delay_stats",
		CQL: "SELECT marketing_airline_network, average_carrier_delay, average_weather_delay, " +
			"average_nas_delay, average_security_delay, average_late_aircraft_delay, " +
			"average_arrival_delay, average_departure_delay FROM airline_delay_stats",
		Columns: []Column{colAirline, colCarrier, colWeather, colNAS, colSecurity, colLateAircraft, colArrival, colDeparture},
	}

	AirlineDelays = Statement{
		Name:    "airline_delays",
		Table:   "airline_delay_stats",
		CQL:     "SELECT marketing_airline_network, average_departure_delay, average_arrival_delay FROM airline_delay_stats",
		Columns: []Column{colAirline, colDeparture, colArrival},
	}

	AirportDelays = Statement{
		Name:    "airport_delays",
		Table:   "airport_delay_stats",
		CQL:     "SELECT origin_city_name, average_departure_delay, average_arrival_delay FROM airport_delay_stats",
		Columns: []Column{colCity, colDeparture, colArrival},
	}

	MonthlyDepartureDelays = Statement{
		Name:    "monthly_departure_delays",
		Table:   "monthly_delay_stats",
		CQL:     "SELECT flight_month, average_departure_delay, average_arrival_delay FROM monthly_delay_stats",
		Columns: []Column{colMonth, colDeparture, colArrival},
	}
)

// Statements 所有固定查询
func Statements() []Statement {
	return []Statement{
		MonthlyDelays,
		DelayCauses,
		AirlineDelayBreakdown,
		AirlineDelays,
		AirportDelays,
		MonthlyDepartureDelays,
	}
}

// scanDest 按列类型分配扫描目标
func (s Statement) scanDest() []interface{} {
	dest := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		switch c.Kind {
		case KindInt:
			dest[i] = new(int)
		case KindFloat:
			dest[i] = new(float64)
		default:
			dest[i] = new(string)
		}
	}
	return dest
}

// record 把扫描目标解引用为一行记录
func (s Statement) record(dest []interface{}) DelayRecord {
	rec := make(DelayRecord, len(dest))
	for i, d := range dest {
		switch v := d.(type) {
		case *int:
			rec[i] = *v
		case *float64:
			rec[i] = *v
		case *string:
			rec[i] = *v
		}
	}
	return rec
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Cassandra struct {
		Hosts          []string `json:"hosts"`           // 集群节点地址
		Port           int      `json:"port"`            // CQL端口
		Username       string   `json:"username"`        // 用户名
		Password       string   `json:"password"`        // 密码
		Keyspace       string   `json:"keyspace"`        // 统计结果所在的keyspace
		LocalDC        string   `json:"local_dc"`        // 本地数据中心
		Consistency    string   `json:"consistency"`     // 读一致性级别
		Timeout        Duration `json:"timeout"`         // 单次请求超时
		ConnectTimeout Duration `json:"connect_timeout"` // 建连超时
	} `json:"cassandra"`

	Render struct {
		Width  int    `json:"width"`  // 图像宽度(像素)
		Listen string `json:"listen"` // 本地查看服务监听地址
	} `json:"render"`

	LogName    string `json:"log_name"`
	LogLevel   string `json:"log_level"`
	LogMaxSize string `json:"log_max_size"`
}

// DataConfig 展示相关的数据配置
type DataConfig struct {
	Labels map[string]string `json:"labels"` // 列名 -> 图例名称
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	loadErr            error
	mu                 sync.RWMutex
)

// Default 返回默认配置，与本地单节点Cassandra的出厂设置一致
func Default() *Config {
	cfg := &Config{}
	cfg.Cassandra.Hosts = []string{"127.0.0.1"}
	cfg.Cassandra.Port = 9042
	cfg.Cassandra.Username = "cassandra"
	cfg.Cassandra.Password = "cassandra"
	cfg.Cassandra.Keyspace = "flight_delay_analysis"
	cfg.Cassandra.LocalDC = "datacenter1"
	cfg.Cassandra.Consistency = "ONE"
	cfg.Cassandra.Timeout = Duration(10 * time.Second)
	cfg.Cassandra.ConnectTimeout = Duration(10 * time.Second)
	cfg.Render.Width = 1200
	cfg.Render.Listen = "127.0.0.1:8080"
	cfg.LogLevel = "info"
	cfg.LogMaxSize = "10 * 1024 * 1024"
	return cfg
}

// DefaultDataConfig 返回默认图例名称
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Labels: map[string]string{
			"average_arrival_delay":       "Average Arrival Delay",
			"average_departure_delay":     "Average Departure Delay",
			"average_carrier_delay":       "Carrier Delay",
			"average_weather_delay":       "Weather Delay",
			"average_nas_delay":           "NAS Delay",
			"average_security_delay":      "Security Delay",
			"average_late_aircraft_delay": "Late Aircraft Delay",
		},
	}
}

// LoadConfig 加载配置，进程内只加载一次
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	once.Do(func() {
		instance, dataConfigInstance, loadErr = Load(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, loadErr
}

// Load 读取并解析两个配置文件。文件不存在时使用默认值。
func Load(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfg := Default()
	dcfg := DefaultDataConfig()

	configData, err := readFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if configData != nil {
		if err := json.Unmarshal(configData, cfg); err != nil {
			return nil, nil, fmt.Errorf("解析Config失败: %w", err)
		}
	}

	dataConfigData, err := readFile(filepath.Join(jsonFolder, dataJsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}
	if dataConfigData != nil {
		var parsed DataConfig
		if err := json.Unmarshal(dataConfigData, &parsed); err != nil {
			return nil, nil, fmt.Errorf("解析DataConfig失败: %w", err)
		}
		// 文件中的名称覆盖默认名称
		for k, v := range parsed.Labels {
			dcfg.Labels[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

// readFile 读取文件内容，文件不存在时返回nil
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

// Validate 检查连接参数
func (c *Config) Validate() error {
	var errs []error
	if len(c.Cassandra.Hosts) == 0 {
		errs = append(errs, fmt.Errorf("cassandra.hosts 不能为空"))
	}
	if c.Cassandra.Port <= 0 {
		errs = append(errs, fmt.Errorf("cassandra.port 无效: %d", c.Cassandra.Port))
	}
	if c.Cassandra.Keyspace == "" {
		errs = append(errs, fmt.Errorf("cassandra.keyspace 不能为空"))
	}
	return combineErrors(errs)
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (dc *DataConfig) GetLabel(colName string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	label, ok := dc.Labels[colName]
	return label, ok
}

func (dc *DataConfig) SetLabel(colName, value string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.Labels == nil {
		dc.Labels = make(map[string]string)
	}
	dc.Labels[colName] = value
}

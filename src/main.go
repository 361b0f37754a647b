package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"FlightDelayAnalysis/src/config"
	"FlightDelayAnalysis/src/datapush"
	"FlightDelayAnalysis/src/datasource/cassandra"
	"FlightDelayAnalysis/src/processor"
	"FlightDelayAnalysis/src/report"
	"FlightDelayAnalysis/src/storage"
	"FlightDelayAnalysis/src/utils"
)

const (
	defaultConfigDir = "./config"
	configFile       = "config.json"
	dataConfigFile   = "dataconfig.json"
)

type options struct {
	configDir string
	listen    string
	export    string
	noView    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "flightdelay",
		Short:        "查询Cassandra中的航班延误统计并绘图",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", defaultConfigDir, "配置目录(config.json, dataconfig.json)")
	root.PersistentFlags().StringVar(&opts.listen, "listen", "", "查看服务监听地址，默认取配置中的render.listen")
	root.PersistentFlags().StringVar(&opts.export, "export", "", "将查询结果导出为xlsx")
	root.PersistentFlags().BoolVar(&opts.noView, "no-view", false, "只绘图不启动查看服务")

	root.AddCommand(&cobra.Command{
		Use:   "causes",
		Short: "月度延误、航司延误原因与航司综合对比",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, report.Causes)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "overview",
		Short: "航司、机场与月份的离港延误",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, report.Overview)
		},
	})
	return root
}

func loadConfig(dir string) (*config.Config, *config.DataConfig, error) {
	if dir == defaultConfigDir {
		return config.LoadConfig(dir, configFile, dataConfigFile)
	}
	return config.Load(dir, configFile, dataConfigFile)
}

func newLogger(cfg *config.Config) (*storage.Logger, error) {
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	lvl, err := storage.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warning("日志级别无效，使用INFO", "err", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func run(ctx context.Context, out io.Writer, opts *options, build func(string, *config.DataConfig) report.Report) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, dcfg, err := loadConfig(opts.configDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer rotateLog(logger, cfg)

	rep := build(cfg.Cassandra.Keyspace, dcfg)
	runner := &report.Runner{
		Dial: func(ctx context.Context) (report.Store, error) {
			c, err := cassandra.Dial(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Logger: logger,
		Out:    out,
		Width:  cfg.Render.Width,
	}
	if opts.export != "" {
		runner.Tables = exportTables(opts.export, logger)
	}

	fig, err := runner.Run(ctx, rep)
	if err != nil {
		logger.Error("报表失败", "report", rep.Name, "err", err)
		return err
	}
	// keyspace不存在，已提示
	if fig == nil {
		return nil
	}
	if opts.noView {
		logger.Info("已完成绘图，跳过展示", "report", rep.Name)
		return nil
	}

	viewer, err := datapush.NewViewer(rep.Name, fig, logger)
	if err != nil {
		return err
	}
	listen := opts.listen
	if listen == "" {
		listen = cfg.Render.Listen
	}
	fmt.Fprintf(out, "Figure ready at http://%s/ (Ctrl+C to exit)\n", listen)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return viewer.Serve(sigCtx, listen)
}

// exportTables 每张查询结果写入一个工作表
func exportTables(path string, logger *storage.Logger) func(string, []processor.DelayTable) error {
	return func(name string, tables []processor.DelayTable) error {
		sheets := make([]utils.Sheet, len(tables))
		for i, t := range tables {
			sheets[i] = t.Sheet()
		}
		if err := utils.SaveToExcel(path, sheets...); err != nil {
			return fmt.Errorf("导出 %s 失败: %w", path, err)
		}
		logger.Info("查询结果已导出", "report", name, "path", path, "sheets", len(sheets))
		return nil
	}
}

func rotateLog(logger *storage.Logger, cfg *config.Config) {
	maxSize, err := storage.ParseSize(cfg.LogMaxSize)
	if err != nil {
		logger.Warning("日志大小配置无效", "err", err)
		return
	}
	if err := logger.CheckRotate(maxSize); err != nil {
		logger.Warning("日志轮转失败", "err", err)
	}
}

package report

import (
	"context"
	"fmt"
	"io"

	"FlightDelayAnalysis/src/datasource/cassandra"
	"FlightDelayAnalysis/src/processor"
	"FlightDelayAnalysis/src/render"
	"FlightDelayAnalysis/src/storage"
)

// Store 流水线使用的数据库会话，cassandra.Client实现了该接口
type Store interface {
	Keyspaces(ctx context.Context) ([]string, error)
	Use(ctx context.Context, keyspace string) error
	Execute(ctx context.Context, stmt cassandra.Statement) ([]cassandra.DelayRecord, error)
	Close() error
}

// DialFunc 打开一个未绑定keyspace的会话
type DialFunc func(ctx context.Context) (Store, error)

// Report 一个固定的报表：若干查询 + 子图的构造方式
type Report struct {
	Name          string
	Keyspace      string
	CheckKeyspace bool // 先确认keyspace存在，不存在时只提示不报错
	PanelHeight   int
	Statements    []cassandra.Statement
	Build         func(tables []processor.DelayTable) ([]render.Panel, error)
}

// Runner 顺序执行 连接 -> 查询 -> 制表 -> 绘图 -> 断开
type Runner struct {
	Dial   DialFunc
	Logger *storage.Logger
	Out    io.Writer // 提示信息输出
	Width  int

	// Tables 可选，绘图前收到全部查询结果(用于导出)
	Tables func(report string, tables []processor.DelayTable) error
}

// Run 执行报表。keyspace不存在时返回(nil, nil)。
// 会话在返回前释放且只释放一次。
func (r *Runner) Run(ctx context.Context, rep Report) (*render.Figure, error) {
	store, err := r.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			r.Logger.Warning("关闭会话失败", "err", cerr)
		}
	}()

	if rep.CheckKeyspace {
		keyspaces, err := store.Keyspaces(ctx)
		if err != nil {
			return nil, err
		}
		if !cassandra.HasKeyspace(keyspaces, rep.Keyspace) {
			fmt.Fprintf(r.Out, "Keyspace '%s' does not exist.\n", rep.Keyspace)
			r.Logger.Info("keyspace不存在，跳过报表", "report", rep.Name, "keyspace", rep.Keyspace)
			return nil, nil
		}
	}
	if err := store.Use(ctx, rep.Keyspace); err != nil {
		return nil, err
	}

	tables := make([]processor.DelayTable, 0, len(rep.Statements))
	for _, stmt := range rep.Statements {
		records, err := store.Execute(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rep.Name, err)
		}
		table, err := processor.Tabulate(stmt, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rep.Name, err)
		}
		r.Logger.Info("查询完成", "report", rep.Name, "statement", stmt.Name, "rows", table.Nrow())
		tables = append(tables, table)
	}

	if r.Tables != nil {
		if err := r.Tables(rep.Name, tables); err != nil {
			return nil, err
		}
	}

	panels, err := rep.Build(tables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rep.Name, err)
	}
	renderer := render.Renderer{Width: r.Width, PanelHeight: rep.PanelHeight}
	fig, err := renderer.Render(panels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rep.Name, err)
	}
	r.Logger.Info("绘图完成", "report", rep.Name, "panels", len(panels))
	return fig, nil
}

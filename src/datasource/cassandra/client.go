package cassandra

import (
	"context"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"FlightDelayAnalysis/src/config"
	"FlightDelayAnalysis/src/storage"
)

// Client 持有一个Cassandra会话，直到Close
type Client struct {
	cfg      *config.Config
	logger   *storage.Logger
	session  *gocql.Session
	keyspace string
	once     sync.Once
}

// Dial 建立未绑定keyspace的会话
func Dial(ctx context.Context, cfg *config.Config, logger *storage.Logger) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cluster, err := newCluster(cfg)
	if err != nil {
		return nil, err
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrapf(err, "连接Cassandra失败 %v:%d", cfg.Cassandra.Hosts, cfg.Cassandra.Port)
	}
	logger.Info("已连接Cassandra", "hosts", len(cfg.Cassandra.Hosts), "port", cfg.Cassandra.Port)

	return &Client{
		cfg:     cfg,
		logger:  logger,
		session: session,
	}, nil
}

// newCluster 根据配置构造ClusterConfig
func newCluster(cfg *config.Config) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Cassandra.Consistency)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cluster := gocql.NewCluster(cfg.Cassandra.Hosts...)
	cluster.Port = cfg.Cassandra.Port
	cluster.Consistency = consistency
	cluster.Timeout = time.Duration(cfg.Cassandra.Timeout)
	cluster.ConnectTimeout = time.Duration(cfg.Cassandra.ConnectTimeout)
	// 不做任何重试
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 0}

	if cfg.Cassandra.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(cfg.Cassandra.LocalDC))
	}
	if cfg.Cassandra.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Cassandra.Username,
			Password: cfg.Cassandra.Password,
		}
	}
	return cluster, nil
}

// Keyspaces 列出集群中所有keyspace
func (c *Client) Keyspaces(ctx context.Context) ([]string, error) {
	if c.session == nil {
		return nil, errors.New("会话已关闭")
	}

	iter := c.session.Query(keyspacesCQL).WithContext(ctx).Iter()
	var (
		name  string
		names []string
	)
	for iter.Scan(&name) {
		names = append(names, name)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "查询keyspace列表失败")
	}
	return names, nil
}

// Use 将会话限定到keyspace。gocql不支持USE语句，因此重建会话。
func (c *Client) Use(ctx context.Context, keyspace string) error {
	if c.session == nil {
		return errors.New("会话已关闭")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cluster, err := newCluster(c.cfg)
	if err != nil {
		return err
	}
	cluster.Keyspace = keyspace

	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrapf(err, "切换到keyspace %s 失败", keyspace)
	}
	c.session.Close()
	c.session = session
	c.keyspace = keyspace
	c.logger.Info("已选择keyspace", "keyspace", keyspace)
	return nil
}

// Execute 执行固定查询，按驱动返回顺序给出所有行
func (c *Client) Execute(ctx context.Context, stmt Statement) ([]DelayRecord, error) {
	if c.session == nil {
		return nil, errors.New("会话已关闭")
	}

	iter := c.session.Query(stmt.CQL).WithContext(ctx).Iter()
	defer iter.Close()

	var records []DelayRecord
	scanner := iter.Scanner()
	for scanner.Next() {
		dest := stmt.scanDest()
		if err := scanner.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "读取 %s 失败", stmt.Table)
		}
		records = append(records, stmt.record(dest))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "查询 %s 失败", stmt.Table)
	}

	c.logger.Debug("查询完成", "statement", stmt.Name, "rows", len(records))
	return records, nil
}

// Close 释放会话，只执行一次
func (c *Client) Close() error {
	c.once.Do(func() {
		if c.session != nil {
			c.session.Close()
			c.session = nil
		}
		c.logger.Info("已断开Cassandra连接")
	})
	return nil
}

// HasKeyspace 判断keyspace是否在列表中
func HasKeyspace(keyspaces []string, keyspace string) bool {
	for _, k := range keyspaces {
		if k == keyspace {
			return true
		}
	}
	return false
}

package datapush

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"FlightDelayAnalysis/src/render"
	"FlightDelayAnalysis/src/storage"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h3>{{.Title}}</h3>
<ul>{{range .Panels}}<li>{{.}}</li>{{end}}</ul>
<img src="/figure.png" alt="{{.Title}}">
</body>
</html>
`))

// Viewer 在本地展示渲染结果，图像只保存在内存中
type Viewer struct {
	Title  string
	Logger *storage.Logger

	mu  sync.RWMutex
	fig *render.Figure
	png []byte
}

// NewViewer 创建查看器并编码图像
func NewViewer(title string, fig *render.Figure, logger *storage.Logger) (*Viewer, error) {
	v := &Viewer{Title: title, Logger: logger}
	if err := v.SetFigure(fig); err != nil {
		return nil, err
	}
	return v, nil
}

// SetFigure 替换当前展示的图像
func (v *Viewer) SetFigure(fig *render.Figure) error {
	if fig == nil {
		return errors.New("没有可展示的图像")
	}
	data, err := fig.PNG()
	if err != nil {
		return fmt.Errorf("编码图像失败: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.fig = fig
	v.png = data
	return nil
}

// Handler 注册 / 、/figure.png 与 /logs 路由
func (v *Viewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", v.index)
	mux.HandleFunc("/figure.png", v.figure)
	mux.HandleFunc("/logs", v.logs)
	return mux
}

func (v *Viewer) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	v.mu.RLock()
	titles := make([]string, 0, len(v.fig.Panels))
	for _, p := range v.fig.Panels {
		titles = append(titles, p.Title)
	}
	v.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title  string
		Panels []string
	}{v.Title, titles}
	if err := pageTmpl.Execute(w, data); err != nil {
		v.Logger.Warning("输出页面失败", "err", err)
	}
}

func (v *Viewer) figure(w http.ResponseWriter, r *http.Request) {
	v.mu.RLock()
	data := v.png
	v.mu.RUnlock()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// logs 持续输出日志，直到客户端断开
func (v *Viewer) logs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	logChan := v.Logger.Subscribe()
	defer v.Logger.Unsubscribe(logChan)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	for {
		select {
		case msg, ok := <-logChan:
			if !ok {
				return
			}
			// 写入失败说明客户端已断开
			if _, err := fmt.Fprint(w, msg); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

// Serve 监听addr并阻塞，直到ctx取消(通常是收到SIGINT/SIGTERM)
func (v *Viewer) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	return v.serve(ctx, ln)
}

func (v *Viewer) serve(ctx context.Context, ln net.Listener) error {
	// ctx取消时/logs等长连接随之结束
	srv := &http.Server{
		Handler:           v.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	v.Logger.Info("图像已就绪", "url", "http://"+ln.Addr().String()+"/")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		v.Logger.Info("收到退出信号，关闭查看服务")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

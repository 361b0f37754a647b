package datapush

import (
	"bufio"
	"bytes"
	"context"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlightDelayAnalysis/src/render"
	"FlightDelayAnalysis/src/storage"
)

func testFigure(t *testing.T) *render.Figure {
	t.Helper()
	p := render.Panel{
		Title:  "Average Departure Delay by Month",
		XLabel: "Flight Month",
		YLabel: "Average Delay (minutes)",
		Series: []render.Series{{
			Name:   "Average Departure Delay",
			Kind:   render.Line,
			X:      []float64{1, 2, 3},
			Y:      []float64{5, 6, 4},
			Marker: true,
		}},
		Grid:   render.GridY,
		Legend: true,
	}
	fig, err := render.Renderer{Width: 320, PanelHeight: 240}.Render([]render.Panel{p})
	require.NoError(t, err)
	return fig
}

func TestViewerRoutes(t *testing.T) {
	logger := storage.NewWriterLogger(&bytes.Buffer{})
	v, err := NewViewer("overview", testFigure(t), logger)
	require.NoError(t, err)

	srv := httptest.NewServer(v.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Average Departure Delay by Month")
	assert.Contains(t, string(body), `src="/figure.png"`)

	resp, err = http.Get(srv.URL + "/figure.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewerLogs(t *testing.T) {
	logger := storage.NewWriterLogger(&bytes.Buffer{})
	v, err := NewViewer("causes", testFigure(t), logger)
	require.NoError(t, err)

	srv := httptest.NewServer(v.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/logs", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// 响应头返回后订阅已经生效
	logger.Info("查询完成", "statement", "airline_delays")

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "statement=airline_delays")
}

func TestViewerNilFigure(t *testing.T) {
	_, err := NewViewer("causes", nil, storage.NewWriterLogger(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestViewerServeStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	v, err := NewViewer("overview", testFigure(t), storage.NewWriterLogger(&buf))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/figure.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("查看服务没有退出")
	}
	assert.True(t, strings.Contains(buf.String(), "http://"+ln.Addr().String()))
}

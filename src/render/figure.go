package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Renderer 把若干子图纵向排列成一张图
type Renderer struct {
	Width       int // 图像宽度(像素)
	PanelHeight int // 每个子图的高度(像素)
}

// Figure 渲染结果，只保存在内存中
type Figure struct {
	Panels []Panel
	Image  *image.RGBA
}

// Render 依次绘制每个子图并纵向拼接
func (r Renderer) Render(panels []Panel) (*Figure, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("没有需要绘制的子图")
	}
	if r.Width <= 0 || r.PanelHeight <= 0 {
		return nil, fmt.Errorf("图像尺寸无效: %dx%d", r.Width, r.PanelHeight)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.PanelHeight*len(panels)))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, p := range panels {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		img, err := r.renderPanel(p)
		if err != nil {
			return nil, fmt.Errorf("绘制子图 %q 失败: %w", p.Title, err)
		}
		dst := image.Rect(0, i*r.PanelHeight, r.Width, (i+1)*r.PanelHeight)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Over)
	}

	return &Figure{Panels: panels, Image: canvas}, nil
}

func (r Renderer) renderPanel(p Panel) (image.Image, error) {
	ch := p.toChart(r.Width, r.PanelHeight)

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// PNG 编码为PNG
func (f *Figure) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

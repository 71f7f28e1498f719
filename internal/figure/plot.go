package figure

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default plot size in inches.
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
)

// Plot adapts a gonum plot to Figure.
type Plot struct {
	*plot.Plot
}

// Render draws the plot in any format gonum/plot supports.
// opts.DPI is honored for png, jpeg and tiff.
func (p Plot) Render(w io.Writer, format string, opts Options) error {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	wl, hl := vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch

	if opts.DPI > 0 {
		if wt, ok := p.rasterWriter(wl, hl, format, int(opts.DPI)); ok {
			_, err := wt.WriteTo(w)
			return err
		}
	}

	wt, err := p.WriterTo(wl, hl, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func (p Plot) rasterWriter(w, h vg.Length, format string, dpi int) (io.WriterTo, bool) {
	var wrap func(*vgimg.Canvas) io.WriterTo
	switch format {
	case "png":
		wrap = func(c *vgimg.Canvas) io.WriterTo { return vgimg.PngCanvas{Canvas: c} }
	case "jpg", "jpeg":
		wrap = func(c *vgimg.Canvas) io.WriterTo { return vgimg.JpegCanvas{Canvas: c} }
	case "tif", "tiff":
		wrap = func(c *vgimg.Canvas) io.WriterTo { return vgimg.TiffCanvas{Canvas: c} }
	default:
		return nil, false
	}

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	return wrap(c), true
}

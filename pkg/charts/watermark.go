package charts

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const WatermarkText = "FORMULA STATS"

func textScale(dpi float64) int {
	return max(1, int(dpi/100))
}

// label renders text with the 7x13 face, magnified scale times.
func label(text string, col color.Color, scale int) *image.RGBA {
	face := basicfont.Face7x13
	dr := &font.Drawer{Face: face}
	w := dr.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	dr.Dst = small
	dr.Src = image.NewUniform(col)
	dr.Dot = fixed.Point26_6{X: 0, Y: fixed.I(face.Metrics().Ascent.Ceil())}
	dr.DrawString(text)
	if scale <= 1 {
		return small
	}
	big := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Over, nil)
	return big
}

// caption draws black text with its top left corner at x, y.
func caption(dst draw.Image, text string, x, y, scale int) {
	l := label(text, color.Black, scale)
	r := l.Bounds().Add(image.Pt(x, y))
	draw.Draw(dst, r, l, image.Point{}, draw.Over)
}

// watermark centres a translucent grey mark over img.
func watermark(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	scale := max(1, b.Dx()/(len(WatermarkText)*7*3))
	l := label(WatermarkText, color.NRGBA{0x80, 0x80, 0x80, 0x40}, scale)
	lb := l.Bounds()
	at := image.Pt(b.Min.X+(b.Dx()-lb.Dx())/2, b.Min.Y+(b.Dy()-lb.Dy())/2)
	draw.Draw(out, lb.Add(at), l, image.Point{}, draw.Over)
	return out
}

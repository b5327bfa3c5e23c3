package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Card geometry, in pixels.
const (
	cardX        = 60
	cardY        = 48
	cardW        = 1056
	cardH        = 504
	shadowOffset = 16
	borderWidth  = 4
	cardPadding  = 56

	cardInnerTop   = cardY + cardPadding
	textWidth      = cardW - 2*cardPadding
	footerBaseline = cardY + cardH - 48

	logoSize        = 140
	footerSize      = 28
	descriptionSize = 30
	maxTitleLines   = 3
)

var (
	titleSizes     = []float64{72, 60, 48}
	siteTitleSizes = []float64{80, 64, 52}
)

const ellipsis = "..."

type faceKey struct {
	bold bool
	size float64
}

// canvas is the per-call drawing state. Faces are not safe for concurrent
// use, so each render opens its own.
type canvas struct {
	r     *Renderer
	img   *image.NRGBA
	faces map[faceKey]font.Face
}

func (r *Renderer) newCanvas() *canvas {
	return &canvas{
		r:     r,
		img:   imaging.New(Width, Height, r.colors.bg),
		faces: make(map[faceKey]font.Face),
	}
}

func (c *canvas) close() {
	for _, f := range c.faces {
		f.Close()
	}
}

func (c *canvas) font(bold bool) *opentype.Font {
	if bold {
		return c.r.fonts.bold
	}
	return c.r.fonts.regular
}

func (c *canvas) face(bold bool, size float64) (font.Face, error) {
	k := faceKey{bold, size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.font(bold), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &RenderError{Op: "layout", Err: err}
	}
	c.faces[k] = f
	return f, nil
}

// card draws the offset shadow and the bordered card.
func (c *canvas) card() {
	c.box(image.Rect(cardX+shadowOffset, cardY+shadowOffset, cardX+cardW+shadowOffset, cardY+cardH+shadowOffset), c.r.colors.shadow)
	c.box(image.Rect(cardX, cardY, cardX+cardW, cardY+cardH), c.r.colors.bg)
}

func (c *canvas) box(rect image.Rectangle, fill color.NRGBA) {
	draw.Draw(c.img, rect, image.NewUniform(c.r.colors.fg), image.Point{}, draw.Src)
	draw.Draw(c.img, rect.Inset(borderWidth), image.NewUniform(fill), image.Point{}, draw.Src)
}

func (c *canvas) overlay(img image.Image, at image.Point) {
	c.img = imaging.Overlay(c.img, img, at, 1.0)
}

// checkGlyphs fails for any rune the font cannot draw. The face would
// otherwise substitute a blank box.
func (c *canvas) checkGlyphs(bold bool, s string) error {
	f := c.font(bold)
	var buf sfnt.Buffer
	for _, ch := range s {
		if unicode.IsSpace(ch) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, ch)
		if err != nil {
			return &RenderError{Op: "layout", Err: err}
		}
		if idx == 0 {
			return &RenderError{Op: "layout", Err: fmt.Errorf("no glyph for %q", ch)}
		}
	}
	return nil
}

// title draws a bold, wrapped title at the largest size that fits.
func (c *canvas) title(s string, sizes []float64, top int) error {
	_, err := c.titleBlock(s, sizes, top, maxTitleLines)
	return err
}

// titleBlock draws s in bold, trying each size until the text fits in
// maxLines. At the smallest size overflowing text is cut with an ellipsis.
// It returns the y coordinate below the block.
func (c *canvas) titleBlock(s string, sizes []float64, top, maxLines int) (int, error) {
	return c.block(true, s, sizes, top, maxLines)
}

// paragraph draws s in the regular font, at most two lines.
func (c *canvas) paragraph(s string, size float64, top int) (int, error) {
	return c.block(false, s, []float64{size}, top, 2)
}

func (c *canvas) block(bold bool, s string, sizes []float64, top, maxLines int) (int, error) {
	if err := c.checkGlyphs(bold, s); err != nil {
		return 0, err
	}
	for i, size := range sizes {
		face, err := c.face(bold, size)
		if err != nil {
			return 0, err
		}
		lines := wrap(face, s, textWidth)
		if len(lines) > maxLines {
			if i < len(sizes)-1 {
				continue
			}
			lines = lines[:maxLines]
			lines[maxLines-1] = fitEllipsis(face, lines[maxLines-1]+ellipsis, textWidth)
		}
		lineHeight := int(size * 1.2)
		for j, line := range lines {
			c.text(face, line, cardX+cardPadding, top+int(size)+j*lineHeight)
		}
		return top + len(lines)*lineHeight, nil
	}
	return top, nil
}

func (c *canvas) footerLeft(s string) error {
	if err := c.checkGlyphs(false, s); err != nil {
		return err
	}
	face, err := c.face(false, footerSize)
	if err != nil {
		return err
	}
	c.text(face, fitEllipsis(face, s, textWidth/2), cardX+cardPadding, footerBaseline)
	return nil
}

func (c *canvas) footerRight(s string) error {
	if err := c.checkGlyphs(true, s); err != nil {
		return err
	}
	face, err := c.face(true, footerSize)
	if err != nil {
		return err
	}
	s = fitEllipsis(face, s, textWidth/2)
	w := font.MeasureString(face, s).Ceil()
	c.text(face, s, cardX+cardW-cardPadding-w, footerBaseline)
	return nil
}

func (c *canvas) text(face font.Face, s string, x, baseline int) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.r.colors.fg),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func (c *canvas) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, c.img, imaging.PNG); err != nil {
		return nil, &RenderError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// wrap breaks s into lines no wider than maxWidth. Words wider than a line
// are split between runes.
func wrap(face font.Face, s string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	line := ""
	for _, w := range strings.Fields(s) {
		for font.MeasureString(face, w) > limit {
			head, tail := splitWord(face, w, limit)
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, head)
			w = tail
		}
		if w == "" {
			continue
		}
		if line == "" {
			line = w
			continue
		}
		if candidate := line + " " + w; font.MeasureString(face, candidate) <= limit {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWord(face font.Face, w string, limit fixed.Int26_6) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && font.MeasureString(face, string(runes[:n+1])) <= limit {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// fitEllipsis shortens s rune by rune until s plus an ellipsis fits. s is
// returned unchanged when it already fits.
func fitEllipsis(face font.Face, s string, maxWidth int) string {
	limit := fixed.I(maxWidth)
	if font.MeasureString(face, s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if font.MeasureString(face, candidate) <= limit {
			return candidate
		}
	}
	return ellipsis
}

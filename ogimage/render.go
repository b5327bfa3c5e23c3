// Package ogimage renders the 1200x630 PNG preview cards shared on social
// networks, one for the site and one per post.
//
// Output depends only on the text and the Branding, so identical inputs
// always produce identical bytes.
package ogimage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Card dimensions.
const (
	Width  = 1200
	Height = 630
)

// layoutVersion changes whenever the drawing code changes the output, so
// that cached images keyed by Fingerprint are not reused.
const layoutVersion = "2"

// Branding is the site-wide input to every card.
type Branding struct {
	SiteTitle   string
	Description string
	Host        string // shown on the card, e.g. "example.com"
	Author      string // used when a post has no author
	LogoPath    string // optional image file drawn on the site card

	Background string // "#rrggbb" or "#rgb"
	Foreground string
	Shadow     string
}

func (b *Branding) setDefaults() {
	if b.Background == "" {
		b.Background = "#fefbfb"
	}
	if b.Foreground == "" {
		b.Foreground = "#000000"
	}
	if b.Shadow == "" {
		b.Shadow = "#ecebeb"
	}
}

// PostInput is the post-specific input to a card.
type PostInput struct {
	Title  string
	Author string
}

type palette struct {
	bg, fg, shadow color.NRGBA
}

type fontSet struct {
	regular, bold *opentype.Font
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &fontSet{regular: regular, bold: bold}, nil
})

// Renderer draws preview cards for one Branding. It is safe for concurrent
// use.
type Renderer struct {
	branding    Branding
	colors      palette
	fonts       *fontSet
	logo        image.Image
	fingerprint string
}

// NewRenderer validates branding, parses the fonts and loads the logo.
func NewRenderer(b Branding) (*Renderer, error) {
	b.setDefaults()

	var p palette
	var err error
	for _, c := range []struct {
		dst *color.NRGBA
		hex string
	}{{&p.bg, b.Background}, {&p.fg, b.Foreground}, {&p.shadow, b.Shadow}} {
		if *c.dst, err = parseHex(c.hex); err != nil {
			return nil, &RenderError{Op: "branding", Err: err}
		}
	}

	fonts, err := loadFonts()
	if err != nil {
		return nil, &RenderError{Op: "fonts", Err: err}
	}

	h := sha256.New()
	fmt.Fprintf(h, "v%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00",
		layoutVersion, b.SiteTitle, b.Description, b.Host, b.Author, b.Background, b.Foreground, b.Shadow)

	r := &Renderer{branding: b, colors: p, fonts: fonts}
	if b.LogoPath != "" {
		data, err := os.ReadFile(b.LogoPath)
		if err != nil {
			return nil, &RenderError{Op: "logo", Err: err}
		}
		logo, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, &RenderError{Op: "logo", Err: err}
		}
		r.logo = imaging.Fit(logo, logoSize, logoSize, imaging.Lanczos)
		h.Write(data)
	}
	r.fingerprint = hex.EncodeToString(h.Sum(nil))
	return r, nil
}

// Branding returns the branding with defaults applied.
func (r *Renderer) Branding() Branding {
	return r.branding
}

// Fingerprint identifies the branding, logo and layout. Two renderers with
// the same fingerprint produce the same images.
func (r *Renderer) Fingerprint() string {
	return r.fingerprint
}

// SiteKey returns a content key for the site card.
func (r *Renderer) SiteKey() string {
	return r.key("site")
}

// PostKey returns a content key for the card of in.
func (r *Renderer) PostKey(in PostInput) string {
	return r.key("post", in.Title, r.author(in))
}

func (r *Renderer) key(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(r.fingerprint))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Renderer) author(in PostInput) string {
	if a := strings.TrimSpace(in.Author); a != "" {
		return a
	}
	return r.branding.Author
}

var errEmptyTitle = errors.New("empty title")

// RenderPost draws the card for one post: its title, its author and the
// site title.
func (r *Renderer) RenderPost(in PostInput) ([]byte, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &RenderError{Op: "layout", Err: errEmptyTitle}
	}
	c := r.newCanvas()
	defer c.close()

	c.card()
	if err := c.title(title, titleSizes, cardInnerTop); err != nil {
		return nil, err
	}
	if author := r.author(in); author != "" {
		if err := c.footerLeft("by " + author); err != nil {
			return nil, err
		}
	}
	if err := c.footerRight(r.branding.SiteTitle); err != nil {
		return nil, err
	}
	return c.encode()
}

// RenderSite draws the site card: logo, site title, description and host.
func (r *Renderer) RenderSite() ([]byte, error) {
	if strings.TrimSpace(r.branding.SiteTitle) == "" {
		return nil, &RenderError{Op: "layout", Err: errEmptyTitle}
	}
	c := r.newCanvas()
	defer c.close()

	c.card()
	top := cardInnerTop
	if r.logo != nil {
		c.overlay(r.logo, image.Pt(cardX+cardPadding, top))
		top += r.logo.Bounds().Dy() + 24
	}
	bottom, err := c.titleBlock(r.branding.SiteTitle, siteTitleSizes, top, 2)
	if err != nil {
		return nil, err
	}
	if d := strings.TrimSpace(r.branding.Description); d != "" {
		if _, err := c.paragraph(d, descriptionSize, bottom+16); err != nil {
			return nil, err
		}
	}
	if r.branding.Host != "" {
		if err := c.footerRight(r.branding.Host); err != nil {
			return nil, err
		}
	}
	return c.encode()
}

func parseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

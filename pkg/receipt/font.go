package receipt

import (
	"fmt"
	"image"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSet is an ordered list of TrueType or OpenType fonts. Each glyph is
// drawn from the first font that has it, so a script font can be placed in
// front of the built-in Go Regular face.
type FontSet struct {
	fonts []*opentype.Font
	data  [][]byte
}

var defaultFonts = sync.OnceValues(func() (*FontSet, error) {
	return NewFontSet()
})

// NewFontSet loads the font files in order and appends Go Regular as the
// last fallback. Empty paths are skipped.
func NewFontSet(paths ...string) (*FontSet, error) {
	fs := &FontSet{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("receipt: read font %s: %w", p, err)
		}
		if err := fs.add(data); err != nil {
			return nil, fmt.Errorf("receipt: parse font %s: %w", p, err)
		}
	}
	if err := fs.add(goregular.TTF); err != nil {
		return nil, fmt.Errorf("receipt: parse built-in font: %w", err)
	}
	return fs, nil
}

func (fs *FontSet) add(data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fs.fonts = append(fs.fonts, f)
	fs.data = append(fs.data, data)
	return nil
}

func fontsOrDefault(fs *FontSet) (*FontSet, error) {
	if fs != nil {
		return fs, nil
	}
	return defaultFonts()
}

// Covers reports whether any font in the set has a glyph for r.
func (fs *FontSet) Covers(r rune) bool {
	for _, f := range fs.fonts {
		if i, err := f.GlyphIndex(nil, r); err == nil && i != 0 {
			return true
		}
	}
	return false
}

// Primary returns the raw bytes of the first font, for PDF embedding.
func (fs *FontSet) Primary() []byte {
	return fs.data[0]
}

// Face returns a face sized in pixels. The result is not safe for
// concurrent use.
func (fs *FontSet) Face(sizePx float64) (font.Face, error) {
	faces := make(chainFace, 0, len(fs.fonts))
	for _, f := range fs.fonts {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    sizePx,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("receipt: font face: %w", err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

// chainFace resolves every rune against its faces in order.
type chainFace []font.Face

func (c chainFace) pick(r rune) font.Face {
	for _, f := range c {
		if _, ok := f.GlyphAdvance(r); ok {
			return f
		}
	}
	return c[0]
}

func (c chainFace) Close() error {
	for _, f := range c {
		f.Close()
	}
	return nil
}

func (c chainFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return c.pick(r).Glyph(dot, r)
}

func (c chainFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return c.pick(r).GlyphBounds(r)
}

func (c chainFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return c.pick(r).GlyphAdvance(r)
}

func (c chainFace) Kern(r0, r1 rune) fixed.Int26_6 {
	f := c.pick(r0)
	if f != c.pick(r1) {
		return 0
	}
	return f.Kern(r0, r1)
}

func (c chainFace) Metrics() font.Metrics {
	return c[0].Metrics()
}

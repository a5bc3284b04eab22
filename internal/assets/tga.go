package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types the decoder reads.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

type tgaHeader struct {
	idLength      int
	colorMapType  byte
	imageType     byte
	width, height int
	bytesPerPixel int
	topDown       bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, errTGATruncated
	}
	h := tgaHeader{
		idLength:      int(data[0]),
		colorMapType:  data[1],
		imageType:     data[2],
		width:         int(data[12]) | int(data[13])<<8,
		height:        int(data[14]) | int(data[15])<<8,
		bytesPerPixel: int(data[16]) / 8,
		topDown:       data[17]&0x20 != 0,
	}
	switch {
	case h.colorMapType != 0:
		return h, errors.New("tga: color-mapped images not supported")
	case h.imageType != tgaTrueColor && h.imageType != tgaTrueColorRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bytesPerPixel != 3 && h.bytesPerPixel != 4:
		return h, fmt.Errorf("tga: unsupported depth %d bits", int(data[16]))
	case h.width == 0 || h.height == 0:
		return h, errors.New("tga: empty image")
	}
	return h, nil
}

// DecodeTGA decodes an uncompressed or RLE true-color TGA. TGA has no magic
// number, so it is chosen by file extension rather than registered with
// the image package.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	px := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	total := h.width * h.height
	put := func(i int, c color.RGBA) {
		x, y := i%h.width, i/h.width
		if !h.topDown {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}

	if h.imageType == tgaTrueColor {
		if len(px) < total*h.bytesPerPixel {
			return nil, errTGATruncated
		}
		for i := 0; i < total; i++ {
			put(i, tgaPixel(px[i*h.bytesPerPixel:], h.bytesPerPixel))
		}
		return img, nil
	}

	// Run-length packets: the high bit repeats one pixel, otherwise count
	// raw pixels follow.
	i, pos := 0, 0
	for i < total {
		if pos >= len(px) {
			return nil, errTGATruncated
		}
		packet := px[pos]
		pos++
		count := int(packet&0x7f) + 1
		if packet&0x80 != 0 {
			if pos+h.bytesPerPixel > len(px) {
				return nil, errTGATruncated
			}
			c := tgaPixel(px[pos:], h.bytesPerPixel)
			pos += h.bytesPerPixel
			for n := 0; n < count && i < total; n++ {
				put(i, c)
				i++
			}
			continue
		}
		for n := 0; n < count && i < total; n++ {
			if pos+h.bytesPerPixel > len(px) {
				return nil, errTGATruncated
			}
			put(i, tgaPixel(px[pos:], h.bytesPerPixel))
			pos += h.bytesPerPixel
			i++
		}
	}
	return img, nil
}

// tgaPixel reads one BGR(A) pixel.
func tgaPixel(b []byte, bpp int) color.RGBA {
	c := color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
	if bpp == 4 {
		c.A = b[3]
	}
	return c
}

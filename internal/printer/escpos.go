package printer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	cmdInit        = []byte{0x1b, 0x40}
	cmdCodePage858 = []byte{0x1b, 0x74, 0x13}
	cmdAlignLeft   = []byte{0x1b, 0x61, 0x00}
	cmdAlignCenter = []byte{0x1b, 0x61, 0x01}
	cmdCut         = []byte{0x1d, 0x56, 0x00}
)

const trailingFeed = 5

// Renderer ESC/POS 渲染器
type Renderer struct {
	LineWidth int
	PrintQR   bool
	QRSize    int
}

// Render 输出完整打印字节流：初始化、正文、二维码、走纸、切纸
func (r Renderer) Render(ticket Ticket) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(cmdInit)
	buf.Write(cmdCodePage858)
	buf.Write(cmdAlignLeft)

	text, err := encodeCP858(strings.Join(ticket.Lines(r.LineWidth), "\n"))
	if err != nil {
		return nil, err
	}
	buf.Write(text)
	buf.WriteByte('\n')

	if r.PrintQR && strings.TrimSpace(ticket.Code) != "" {
		raster, err := qrRaster(ticket.Code, r.QRSize)
		if err != nil {
			return nil, fmt.Errorf("render qr: %w", err)
		}
		buf.Write(cmdAlignCenter)
		buf.Write(raster)
		buf.Write(cmdAlignLeft)
	}

	buf.Write(bytes.Repeat([]byte{'\n'}, trailingFeed))
	buf.Write(cmdCut)
	return buf.Bytes(), nil
}

func encodeCP858(text string) ([]byte, error) {
	encoder := encoding.ReplaceUnsupported(charmap.CodePage858.NewEncoder())
	return encoder.Bytes([]byte(text))
}

// qrRaster 生成 GS v 0 光栅位图指令
func qrRaster(content string, size int) ([]byte, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	bitmap := code.Bitmap()
	modules := len(bitmap)
	if modules == 0 {
		return nil, fmt.Errorf("empty qr bitmap")
	}
	if size <= 0 {
		size = 256
	}
	scale := size / modules
	if scale < 1 {
		scale = 1
	}
	dots := modules * scale
	widthBytes := (dots + 7) / 8

	var buf bytes.Buffer
	buf.Write([]byte{0x1d, 0x76, 0x30, 0x00,
		byte(widthBytes & 0xff), byte(widthBytes >> 8),
		byte(dots & 0xff), byte(dots >> 8)})
	row := make([]byte, widthBytes)
	for y := 0; y < dots; y++ {
		for i := range row {
			row[i] = 0
		}
		line := bitmap[y/scale]
		for x := 0; x < dots; x++ {
			if line[x/scale] {
				row[x/8] |= 0x80 >> uint(x%8)
			}
		}
		buf.Write(row)
	}
	return buf.Bytes(), nil
}

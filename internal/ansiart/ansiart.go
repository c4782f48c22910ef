// Package ansiart turns card artwork into 24-bit ANSI half-block art for
// terminal previews, caching the result on disk.
package ansiart

import (
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// Renderer converts images at a location (file path or http(s) URL) to ANSI art
type Renderer struct {
	CacheDir string // empty disables the disk cache
	Client   *http.Client
	Logger   *zap.Logger
}

// NewRenderer returns a renderer caching under cacheDir
func NewRenderer(cacheDir string, client *http.Client, logger *zap.Logger) *Renderer {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{CacheDir: cacheDir, Client: client, Logger: logger}
}

// Render returns the art for the image at location, width cells wide and
// height cells tall
func (r *Renderer) Render(ctx context.Context, location string, width, height int) (string, error) {
	if location == "" {
		return "", fmt.Errorf("no image location")
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid art size %dx%d", width, height)
	}

	cachePath := r.cachePath(location, width, height)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			return string(data), nil
		}
	}

	img, err := r.decode(ctx, location)
	if err != nil {
		return "", err
	}

	art, err := ImageToAnsi(img, width, height)
	if err != nil {
		return "", err
	}

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
			r.Logger.Warn("failed to create ANSI cache directory", zap.Error(err))
		} else if err := os.WriteFile(cachePath, []byte(art), 0644); err != nil {
			r.Logger.Warn("failed to write ANSI cache", zap.String("path", cachePath), zap.Error(err))
		}
	}

	return art, nil
}

func (r *Renderer) cachePath(location string, width, height int) string {
	if r.CacheDir == "" {
		return ""
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%dx%d", location, width, height)))
	return filepath.Join(r.CacheDir, "ansi_cache", fmt.Sprintf("%x.ansi", sum))
}

func (r *Renderer) decode(ctx context.Context, location string) (image.Image, error) {
	var src io.ReadCloser

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		resp, err := r.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
		}
		src = resp.Body
	} else {
		file, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		src = file
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageToAnsi converts an image to ANSI art using upper half blocks: each
// cell shows two pixel rows, top as foreground and bottom as background
func ImageToAnsi(img image.Image, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid art size %dx%d", width, height)
	}
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder

	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			c1 := getColorAt(resized, x, y)
			c2 := getColorAt(resized, x+1, y)
			c3 := getColorAt(resized, x, y+1)
			c4 := getColorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			fg := colorfulToColor(averageColor(col1, col2))
			bg := colorfulToColor(averageColor(col3, col4))

			buffer.WriteString(ansiColorString('▀', fg, bg))
		}
		buffer.WriteString("\n")
	}

	return buffer.String(), nil
}

// getColorAt returns the color at a specific coordinate, black when out of bounds
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func colorfulToColor(c colorful.Color) color.Color {
	c = c.Clamped()
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
}

func ansiColorString(char rune, fg, bg color.Color) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// RGBA() is 16-bit per channel
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}

// StripAnsi removes ANSI escape sequences from a string
func StripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

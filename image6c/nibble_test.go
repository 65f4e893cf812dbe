package image6c

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestNewHorizontalNibble(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantPanic  bool
		wantStride int
		wantPixLen int
	}{
		{"600x1600 strip", image.Rect(0, 0, 600, 1600), false, 300, 480000},
		{"4x2", image.Rect(0, 0, 4, 2), false, 2, 4},
		{"2x2", image.Rect(0, 0, 2, 2), false, 1, 2},
		{"empty", image.Rect(0, 0, 0, 0), false, 0, 0},
		{"offset rect", image.Rect(10, 20, 14, 22), false, 2, 4},
		{"odd width panics", image.Rect(0, 0, 5, 2), true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, want panic = %v", r != nil, tt.wantPanic)
				}
			}()

			img := NewHorizontalNibble(tt.rect, nil)
			if tt.wantPanic {
				return
			}
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestHorizontalNibblePacking(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 1), nil)

	img.SetCode(0, 0, CodeBlack)
	img.SetCode(1, 0, CodeWhite)
	img.SetCode(2, 0, CodeRed)
	img.SetCode(3, 0, CodeGreen)

	// High nibble = even x, low nibble = odd x
	if img.Pix[0] != 0x01 {
		t.Errorf("Pix[0] = 0x%02X, want 0x01", img.Pix[0])
	}
	if img.Pix[1] != 0x36 {
		t.Errorf("Pix[1] = 0x%02X, want 0x36", img.Pix[1])
	}
}

func TestHorizontalNibbleOrCode(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 2, 1), nil)

	img.OrCode(1, 0, CodeBlue)
	img.OrCode(0, 0, CodeYellow)
	if img.Pix[0] != 0x25 {
		t.Errorf("Pix[0] = 0x%02X, want 0x25", img.Pix[0])
	}

	// OR never clears bits already written
	img.OrCode(0, 0, CodeWhite)
	if img.Pix[0] != 0x35 {
		t.Errorf("Pix[0] = 0x%02X, want 0x35", img.Pix[0])
	}

	img.SetCode(0, 0, CodeWhite)
	if img.Pix[0] != 0x15 {
		t.Errorf("after SetCode Pix[0] = 0x%02X, want 0x15", img.Pix[0])
	}
}

func TestHorizontalNibbleAt(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 2, 2), nil)
	img.SetCode(0, 0, CodeYellow)
	img.SetCode(1, 0, 4) // reserved

	c, ok := img.At(0, 0).(Color)
	if !ok {
		t.Fatalf("At(0, 0) returned %T, want Color", img.At(0, 0))
	}
	if c != Yellow {
		t.Errorf("At(0, 0) = %v, want %v", c, Yellow)
	}
	if got := img.At(1, 0); got != White {
		t.Errorf("At(1, 0) with reserved code = %v, want %v", got, White)
	}
	if got := img.At(0, 1); got != Black {
		t.Errorf("At(0, 1) of zeroed pixel = %v, want %v", got, Black)
	}
}

func TestHorizontalNibbleSet(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 2, 1), nil)

	img.Set(0, 0, Blue)
	if got := img.CodeAt(0, 0); got != CodeBlue {
		t.Errorf("After Set(0, 0, Blue), CodeAt(0, 0) = %d, want %d", got, CodeBlue)
	}

	img.Set(1, 0, color.RGBA{0xE0, 0x20, 0x10, 0xFF})
	if got := img.CodeAt(1, 0); got != CodeRed {
		t.Errorf("After Set(1, 0, reddish), CodeAt(1, 0) = %d, want %d", got, CodeRed)
	}
}

func TestHorizontalNibbleDraw(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 4), nil)
	draw.Draw(img, img.Bounds(), image.NewUniform(White), image.Point{}, draw.Src)
	for i, b := range img.Pix {
		if b != 0x11 {
			t.Fatalf("Pix[%d] = 0x%02X, want 0x11", i, b)
		}
	}
}

func TestHorizontalNibbleFill(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 2), nil)
	img.Fill(CodeGreen)
	for i, b := range img.Pix {
		if b != 0x66 {
			t.Errorf("Pix[%d] = 0x%02X, want 0x66", i, b)
		}
	}
}

func TestHorizontalNibbleColorModel(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 4), nil)
	if img.ColorModel() != Model {
		t.Error("ColorModel() did not return Model")
	}

	gray := Color{R: 0x80, G: 0x80, B: 0x80, Code: 8}
	custom := NewHorizontalNibble(image.Rect(0, 0, 2, 1), Palette{Black, gray, White})
	if got := custom.ColorModel().Convert(color.RGBA{0x70, 0x70, 0x70, 0xFF}); got != gray {
		t.Errorf("custom ColorModel().Convert() = %v, want %v", got, gray)
	}
}

func TestHorizontalNibbleOutOfBounds(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 4), nil)

	img.SetCode(-1, 0, CodeGreen)
	img.SetCode(0, -1, CodeGreen)
	img.OrCode(4, 0, CodeGreen)
	img.SetCode(0, 4, CodeGreen)

	for i, b := range img.Pix {
		if b != 0 {
			t.Errorf("Pix[%d] = 0x%02X after out-of-bounds writes, want 0", i, b)
		}
	}
	if got := img.CodeAt(-1, 0); got != 0 {
		t.Errorf("CodeAt(-1, 0) = %d, want 0", got)
	}
}

func TestHorizontalNibbleOffsetRect(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(101, 50, 105, 52), nil)

	img.SetCode(101, 50, CodeRed)
	if got := img.CodeAt(101, 50); got != CodeRed {
		t.Errorf("CodeAt(101, 50) = %d, want %d", got, CodeRed)
	}
	// The first column of an offset rectangle still lands in the high nibble
	if img.Pix[0]>>4 != CodeRed {
		t.Errorf("Pix[0]>>4 = %d, want %d", img.Pix[0]>>4, CodeRed)
	}
}

func TestHorizontalNibblePixOffset(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 600, 2), nil)

	tests := []struct {
		x, y   int
		offset int
		shift  uint
	}{
		{0, 0, 0, 4},
		{1, 0, 0, 0},
		{598, 0, 299, 4},
		{599, 0, 299, 0},
		{0, 1, 300, 4},
		{1, 1, 300, 0},
	}

	for _, tt := range tests {
		offset, shift := img.pixOffset(tt.x, tt.y)
		if offset != tt.offset || shift != tt.shift {
			t.Errorf("pixOffset(%d, %d) = (%d, %d), want (%d, %d)",
				tt.x, tt.y, offset, shift, tt.offset, tt.shift)
		}
	}
}

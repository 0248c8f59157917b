package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"causelist/pkg/config"
	"causelist/pkg/segment"
)

func TestNewFactory(t *testing.T) {
	cfg := config.Default()
	if _, err := New("google", cfg, nil); !errors.Is(err, segment.ErrUnsupportedEngine) {
		t.Fatalf("unknown engine err = %v", err)
	}
	if _, err := New("azure", cfg, nil); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("azure without key err = %v", err)
	}
	if _, err := New("paddle", cfg, nil); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("paddle without url err = %v", err)
	}

	cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.PaddleURL = "https://example.invalid", "k", "http://paddle.invalid"
	for _, name := range segment.EngineNames() {
		ex, err := New(name, cfg, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if ex.Name() != name {
			t.Fatalf("Name() = %q, want %q", ex.Name(), name)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"１２ C.A. No. ３/2020": "12 C.A. No. 3/2020",
		"ﬁled\r\nVersus\rX":  "filed\nVersus\nX",
		"plain":              "plain",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLastPage(t *testing.T) {
	cases := []struct{ total, max, want int }{
		{10, 0, 10},
		{10, 3, 3},
		{2, 5, 2},
		{4, -1, 4},
	}
	for _, c := range cases {
		if got := lastPage(c.total, c.max); got != c.want {
			t.Errorf("lastPage(%d, %d) = %d, want %d", c.total, c.max, got, c.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("ÉÉÉÉ", 2); got != "ÉÉ…" {
		t.Fatalf("snippet = %q", got)
	}
	if got := snippet("ab", 5); got != "ab" {
		t.Fatalf("snippet = %q", got)
	}
}

func TestPreparePage(t *testing.T) {
	img := imaging.New(100, 50, color.NRGBA{200, 10, 10, 255})
	out := preparePage(img, 400)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("upscaled bounds = %v", b)
	}
	c := color.NRGBAModel.Convert(out.At(10, 10)).(color.NRGBA)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected grayscale pixel, got %+v", c)
	}
	if b := preparePage(img, 50).Bounds(); b.Dx() != 100 {
		t.Fatalf("page was downscaled: %v", b)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(image.NewGray(image.Rect(0, 0, 8, 8)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data[1:4]) != "PNG" {
		t.Fatalf("not a png: %x", data[:8])
	}
}

func TestPageCountRejectsGarbage(t *testing.T) {
	if _, err := PageCount([]byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}

func TestDumpPagesRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	paths, err := DumpPages(context.Background(), []byte("not a pdf"), 0, 100, dir, nil)
	if err == nil || len(paths) != 0 {
		t.Fatalf("DumpPages = %v, %v", paths, err)
	}
}

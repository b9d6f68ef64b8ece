package payload

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestNoneProducesNoPayload(t *testing.T) {
	data, err := None{}.Produce()
	if err != nil {
		t.Fatalf("None.Produce returned error: %v", err)
	}
	if data != nil {
		t.Fatalf("None.Produce returned %v bytes, want none", len(data))
	}
}

func TestDrawnProducesDecodableJPEG(t *testing.T) {
	drawn := NewDrawn(64, rand.New(rand.NewSource(1)))
	data, err := drawn.Produce()
	if err != nil {
		t.Fatalf("Drawn.Produce failed: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a decodable JPEG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Errorf("image is %vx%v, want 64x64", cfg.Width, cfg.Height)
	}
}

func TestDrawnDefaultsSize(t *testing.T) {
	drawn := NewDrawn(0, rand.New(rand.NewSource(1)))
	data, err := drawn.Produce()
	if err != nil {
		t.Fatalf("Drawn.Produce failed: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a decodable JPEG: %v", err)
	}
	if cfg.Width != 100 {
		t.Errorf("default image width = %v, want 100", cfg.Width)
	}
}

func TestForMode(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, mode := range []string{ModeCat, ModeDrawn, ModeNone} {
		if _, err := ForMode(mode, 100, rnd); err != nil {
			t.Errorf("ForMode(%q) failed: %v", mode, err)
		}
	}
	if _, err := ForMode("sketch", 100, rnd); err == nil {
		t.Error("unknown mode should be an error")
	}
}

func servePNG(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
}

func newTestFetcher(url string) *CatFetcher {
	fetcher := NewCatFetcher(rand.New(rand.NewSource(1)))
	fetcher.urls = []string{url}
	fetcher.limiter = rate.NewLimiter(rate.Inf, 1)
	return fetcher
}

func TestCatFetcherAnnotatesAndReencodes(t *testing.T) {
	server := servePNG(t)
	defer server.Close()

	data, err := newTestFetcher(server.URL).Produce()
	if err != nil {
		t.Fatalf("CatFetcher.Produce failed: %v", err)
	}
	if data == nil {
		t.Fatal("expected a payload from a healthy server")
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a decodable JPEG: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 32 {
		t.Errorf("image is %vx%v, want the fetched 32x32", cfg.Width, cfg.Height)
	}
}

func TestCatFetcherDegradesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	data, err := newTestFetcher(server.URL).Produce()
	if err != nil {
		t.Fatalf("server error should degrade to no payload, got error %v", err)
	}
	if data != nil {
		t.Fatal("server error should degrade to no payload")
	}
}

func TestCatFetcherDegradesOnGarbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer server.Close()

	data, err := newTestFetcher(server.URL).Produce()
	if err != nil {
		t.Fatalf("undecodable body should degrade to no payload, got error %v", err)
	}
	if data != nil {
		t.Fatal("undecodable body should degrade to no payload")
	}
}

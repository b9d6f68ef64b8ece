// Package payload supplies the optional image bytes attached to generated
// records. The producer variant is chosen once at startup; the generator
// only ever sees the Producer contract.
package payload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math/rand"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/time/rate"

	"github.com/oramatt/registration-app/common/log"
)

// Image payload modes.
const (
	ModeCat   = "cat"
	ModeDrawn = "drawn"
	ModeNone  = "none"
)

// Producer returns the payload for one record. A nil slice with a nil error
// means "no payload" and is a valid, expected outcome.
type Producer interface {
	Produce() ([]byte, error)
}

// ForMode selects the producer variant for the given mode name.
func ForMode(mode string, imageSize int, rnd *rand.Rand) (Producer, error) {
	switch mode {
	case ModeCat:
		return NewCatFetcher(rnd), nil
	case ModeDrawn:
		return NewDrawn(imageSize, rnd), nil
	case ModeNone:
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown image mode %q", mode)
}

// None produces no payload.
type None struct{}

func (None) Produce() ([]byte, error) {
	return nil, nil
}

// Drawn produces a square solid-color JPEG with a caption.
type Drawn struct {
	size int
	rnd  *rand.Rand
}

func NewDrawn(size int, rnd *rand.Rand) *Drawn {
	if size <= 0 {
		size = 100
	}
	return &Drawn{size: size, rnd: rnd}
}

func (d *Drawn) Produce() ([]byte, error) {
	dc := gg.NewContext(d.size, d.size)
	dc.SetRGB255(d.rnd.Intn(256), d.rnd.Intn(256), d.rnd.Intn(256))
	dc.Clear()
	dc.SetRGB255(255, 255, 255)
	dc.DrawString("Fake Image", 10, float64(d.size)/2)
	return encodeJPEG(dc.Image())
}

var catImageURLs = []string{
	"https://cataas.com/cat/says/Hello",
	"https://cataas.com/cat/gif",
	"https://cataas.com/cat",
}

// CatFetcher downloads a cat picture, draws a caption on it and re-encodes
// it as JPEG. Any fetch or decode problem degrades to "no payload" with a
// warning; the record is still generated.
type CatFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	rnd     *rand.Rand
	urls    []string
	caption string
}

func NewCatFetcher(rnd *rand.Rand) *CatFetcher {
	return &CatFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		// one request in flight every half second, short bursts allowed
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		rnd:     rnd,
		urls:    catImageURLs,
		caption: "Meow! I'm a cat!",
	}
}

func (c *CatFetcher) Produce() ([]byte, error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, nil
	}
	url := c.urls[c.rnd.Intn(len(c.urls))]
	resp, err := c.client.Get(url)
	if err != nil {
		log.Logvf(log.Info, "failed to fetch cat image: %v", err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Logvf(log.Info, "failed to fetch cat image: server returned %v", resp.Status)
		return nil, nil
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		log.Logvf(log.Info, "failed to decode cat image from %v: %v", url, err)
		return nil, nil
	}
	dc := gg.NewContextForImage(img)
	dc.SetRGB255(255, 255, 255)
	dc.DrawString(c.caption, 10, 20)
	return encodeJPEG(dc.Image())
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("cannot encode image payload: %v", err)
	}
	return buf.Bytes(), nil
}

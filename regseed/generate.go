package regseed

import (
	"fmt"
	"math/rand"
	"strings"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"gopkg.in/mgo.v2/bson"

	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/progress"
	"github.com/oramatt/registration-app/geo"
	"github.com/oramatt/registration-app/payload"
)

// GeoPoint is the GeoJSON shape the registrations collection indexes.
type GeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// Record is one generated registration document. Records are immutable once
// built and consumed exactly once by the batch write.
type Record struct {
	Name     string       `bson:"name"`
	Age      int          `bson:"age"`
	City     string       `bson:"city"`
	Email    string       `bson:"email"`
	Notes    string       `bson:"notes"`
	Location GeoPoint     `bson:"location"`
	BatchID  string       `bson:"batch_id"`
	Image    *bson.Binary `bson:"image"`
}

// FactSource is the random-fact capability records are assembled from.
type FactSource interface {
	Name() string
	FirstName() string
	LastName() string
	City() string
	Text(maxChars int) string
	IntRange(min, max int) int
}

type gofakeitSource struct {
	faker *gofakeit.Faker
}

// NewFactSource returns a FactSource backed by gofakeit.
func NewFactSource(seed uint64) FactSource {
	return &gofakeitSource{faker: gofakeit.New(seed)}
}

func (s *gofakeitSource) Name() string      { return s.faker.Name() }
func (s *gofakeitSource) FirstName() string { return s.faker.FirstName() }
func (s *gofakeitSource) LastName() string  { return s.faker.LastName() }
func (s *gofakeitSource) City() string      { return s.faker.City() }

func (s *gofakeitSource) Text(maxChars int) string {
	text := s.faker.Paragraph(1, 3, 12, " ")
	if len(text) > maxChars {
		text = strings.TrimSpace(text[:maxChars])
	}
	return text
}

func (s *gofakeitSource) IntRange(min, max int) int {
	return s.faker.Number(min, max)
}

var emailProviders = []string{
	"gmail.com", "yahoo.com", "outlook.com", "example.com",
	"test.com", "hotmail.com",
}

// Generator assembles record batches. All of its collaborators are injected
// once at construction; nothing here branches on payload variants.
type Generator struct {
	facts    FactSource
	sampler  *geo.Sampler
	producer payload.Producer
	rnd      *rand.Rand
	batchID  string
}

func NewGenerator(facts FactSource, sampler *geo.Sampler, producer payload.Producer, rnd *rand.Rand) *Generator {
	return &Generator{
		facts:    facts,
		sampler:  sampler,
		producer: producer,
		rnd:      rnd,
		batchID:  uuid.NewString(),
	}
}

// BatchID identifies this run; it is stamped into every record.
func (g *Generator) BatchID() string {
	return g.batchID
}

// Generate builds count records eagerly in memory. The batch size is the
// caller's responsibility to keep bounded.
func (g *Generator) Generate(count uint) ([]Record, error) {
	log.Logvf(log.Info, "generating %v records for batch %v", count, g.batchID)
	watch := progress.NewCounter(int64(count))
	bar := &progress.Bar{
		Name:     "generating",
		Watching: watch,
		Writer:   log.Writer(log.Info),
	}
	bar.Start()
	defer bar.Stop()

	records := make([]Record, 0, count)
	for i := uint(0); i < count; i++ {
		record, err := g.next()
		if err != nil {
			return nil, fmt.Errorf("generating record %v of %v: %w", i+1, count, err)
		}
		records = append(records, record)
		watch.Inc(1)
	}
	return records, nil
}

func (g *Generator) next() (Record, error) {
	point := g.sampler.Sample()
	image, err := g.producer.Produce()
	if err != nil {
		return Record{}, err
	}
	record := Record{
		Name:  g.facts.Name(),
		Age:   g.facts.IntRange(18, 60),
		City:  g.facts.City(),
		Email: g.email(),
		Notes: g.facts.Text(200),
		Location: GeoPoint{
			Type:        "Point",
			Coordinates: []float64{point[0], point[1]},
		},
		BatchID: g.batchID,
	}
	// a producer returning no bytes is a valid outcome; the field stays null
	if image != nil {
		record.Image = &bson.Binary{Kind: 0x00, Data: image}
	}
	return record, nil
}

// email produces one of four address shapes over a fixed provider list.
func (g *Generator) email() string {
	provider := emailProviders[g.rnd.Intn(len(emailProviders))]
	switch g.rnd.Intn(4) {
	case 0:
		return fmt.Sprintf("%v.%v@%v", g.facts.FirstName(), g.facts.LastName(), provider)
	case 1:
		return fmt.Sprintf("%v%v@%v", g.facts.FirstName(), g.rnd.Intn(100)+1, provider)
	case 2:
		return fmt.Sprintf("%v%v@%v", g.facts.LastName(), g.rnd.Intn(100)+1, provider)
	}
	return fmt.Sprintf("%v%v@%v", g.facts.FirstName(), g.facts.LastName(), provider)
}

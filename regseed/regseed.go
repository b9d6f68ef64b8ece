// Package regseed implements the registration-app data seeding tool: it
// acquires a MongoDB connection from a prioritized endpoint list (with an
// interactive fallback), generates a batch of randomized registration
// records with land-constrained coordinates, and bulk-inserts them while
// reporting before/after size and count metrics.
package regseed

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	mgo "gopkg.in/mgo.v2"

	"github.com/oramatt/registration-app/common/config"
	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/options"
	"github.com/oramatt/registration-app/common/util"
	"github.com/oramatt/registration-app/geo"
	"github.com/oramatt/registration-app/payload"
)

// defaultEndpoints is tried when neither --uri flags nor a --uriFile supply
// any. The port matches the registration app's dev instance.
var defaultEndpoints = []string{
	"mongodb://127.0.0.1:23456/test",
}

// RegSeed is the tool: options plus the explicit state the pipeline stages
// share. Everything is constructed once at startup and passed by reference;
// there is no ambient global state beyond the logger.
type RegSeed struct {
	// generic tool options
	ToolOptions *options.ToolOptions

	// GenerationOptions defines how the record batch is built
	GenerationOptions *GenerationOptions

	// IngestOptions defines how the batch is inserted
	IngestOptions *IngestOptions

	// Land is the polygon set constraining record coordinates
	Land *geo.LandSet

	// Facts supplies random names, cities, text and bounded ints
	Facts FactSource

	// Producer supplies optional image payloads
	Producer payload.Producer

	// Prompter drives the interactive endpoint fallback; nil means the
	// terminal
	Prompter Prompter

	// Rand drives coordinate sampling and email shape selection
	Rand *rand.Rand

	endpoints []string
	session   *mgo.Session
}

// ValidateOptions checks and completes the parsed options: the positional
// record count, the merged endpoint list and the namespace defaults.
func (rs *RegSeed) ValidateOptions(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one positional argument is allowed")
	}
	if len(args) == 1 {
		if rs.GenerationOptions.Num != 0 {
			return fmt.Errorf("incompatible options: --num and positional argument")
		}
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid record count %q: %v", args[0], err)
		}
		rs.GenerationOptions.Num = uint(n)
	}

	uris := append([]string(nil), rs.ToolOptions.Connection.URIs...)
	if rs.ToolOptions.Connection.URIFile != "" {
		endpointFile, err := config.LoadEndpointFile(rs.ToolOptions.Connection.URIFile)
		if err != nil {
			return err
		}
		uris = append(uris, endpointFile.URIs...)
		if rs.ToolOptions.DB == "" {
			rs.ToolOptions.DB = endpointFile.DB
		}
		if rs.ToolOptions.Collection == "" {
			rs.ToolOptions.Collection = endpointFile.Collection
		}
	}
	if len(uris) == 0 {
		uris = defaultEndpoints
	}
	rs.endpoints = uris

	if rs.ToolOptions.DB == "" {
		rs.ToolOptions.DB = "test"
	}
	if err := util.ValidateDBName(rs.ToolOptions.DB); err != nil {
		return fmt.Errorf("invalid database name: %v", err)
	}
	if rs.ToolOptions.Collection == "" {
		rs.ToolOptions.Collection = "registrations"
	}
	if rs.ToolOptions.Connection.ProbeTimeoutMS <= 0 {
		rs.ToolOptions.Connection.ProbeTimeoutMS = 100
	}
	return nil
}

// AcquireSession probes the configured endpoints in order and falls back to
// the interactive prompt. On success the session is configured for the
// batch write and owned by the tool until Close.
func (rs *RegSeed) AcquireSession() error {
	prompter := rs.Prompter
	if prompter == nil {
		prompter = NewTerminalPrompter()
	}
	a := &acquirer{
		probe: func(uri string, timeout time.Duration) (*mgo.Session, error) {
			return probeEndpoint(uri, timeout, rs.ToolOptions.Auth)
		},
		timeout:  time.Duration(rs.ToolOptions.Connection.ProbeTimeoutMS) * time.Millisecond,
		prompter: prompter,
	}
	session, err := a.acquire(rs.endpoints)
	if err != nil {
		return err
	}
	rs.session = session
	return rs.configureSession()
}

// configureSession prepares the acquired session for ingestion: sockets
// never time out once the batch is underway (the bulk insert is one
// unbounded unit of work), and the configured write concern applies.
func (rs *RegSeed) configureSession() error {
	rs.session.SetSocketTimeout(0)
	safe, err := buildWriteConcern(rs.IngestOptions.WriteConcern)
	if err != nil {
		return fmt.Errorf("write concern error: %v", err)
	}
	rs.session.SetSafe(safe)
	return nil
}

func buildWriteConcern(concern string) (*mgo.Safe, error) {
	if concern == "" {
		return &mgo.Safe{W: 1}, nil
	}
	if n, err := strconv.Atoi(concern); err == nil {
		if n < 0 {
			return nil, fmt.Errorf("write concern %q cannot be negative", concern)
		}
		return &mgo.Safe{W: n}, nil
	}
	return &mgo.Safe{WMode: concern}, nil
}

// Run executes the generate-and-write pipeline against the acquired
// session and returns the write report.
func (rs *RegSeed) Run() (WriteReport, error) {
	return rs.run(newMongoStore(rs.session, rs.ToolOptions.DB, rs.ToolOptions.Collection))
}

func (rs *RegSeed) run(store Datastore) (WriteReport, error) {
	log.Logvf(log.Info, "ns: %v.%v", rs.ToolOptions.DB, rs.ToolOptions.Collection)
	if rs.IngestOptions.Drop {
		log.Logvf(log.Always, "dropping: %v.%v", rs.ToolOptions.DB, rs.ToolOptions.Collection)
		if err := store.Drop(); err != nil {
			return WriteReport{}, err
		}
	}
	generator := NewGenerator(rs.Facts, geo.NewSampler(rs.Land, rs.Rand), rs.Producer, rs.Rand)
	records, err := generator.Generate(rs.GenerationOptions.Num)
	if err != nil {
		return WriteReport{}, err
	}
	return writeBatch(store, records)
}

// Close releases the acquired session, if any.
func (rs *RegSeed) Close() {
	if rs.session != nil {
		rs.session.Close()
		rs.session = nil
	}
}

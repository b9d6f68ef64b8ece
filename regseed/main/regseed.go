// Main package for the regseed tool.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/options"
	"github.com/oramatt/registration-app/common/signals"
	"github.com/oramatt/registration-app/common/util"
	"github.com/oramatt/registration-app/geo"
	"github.com/oramatt/registration-app/payload"
	"github.com/oramatt/registration-app/regseed"
)

func main() {
	go signals.Handle()
	// initialize command-line opts
	opts := options.New("regseed", regseed.Usage,
		options.EnabledOptions{Auth: true, Connection: true, Namespace: true})

	generationOpts := &regseed.GenerationOptions{}
	opts.AddOptions(generationOpts)
	ingestOpts := &regseed.IngestOptions{}
	opts.AddOptions(ingestOpts)

	args, err := opts.Parse()
	if err != nil {
		log.Logvf(log.Always, "error parsing command line options: %v", err)
		log.Logvf(log.Always, "try 'regseed --help' for more information")
		os.Exit(util.ExitBadOptions)
	}

	log.SetVerbosity(opts.Verbosity)

	// print help, if specified
	if opts.PrintHelp(false) {
		return
	}

	// print version, if specified
	if opts.PrintVersion() {
		return
	}

	rs := &regseed.RegSeed{
		ToolOptions:       opts,
		GenerationOptions: generationOpts,
		IngestOptions:     ingestOpts,
	}

	if err = rs.ValidateOptions(args); err != nil {
		log.Logvf(log.Always, "error validating options: %v", err)
		log.Logvf(log.Always, "try 'regseed --help' for more information")
		os.Exit(util.ExitBadOptions)
	}

	stdin := bufio.NewReader(os.Stdin)
	if generationOpts.Num == 0 {
		generationOpts.Num = promptRecordCount(stdin, os.Stdout)
	}
	if generationOpts.Images == "" {
		generationOpts.Images = promptImageMode(stdin, os.Stdout)
	}

	// the land polygons load before any connection attempt; without them no
	// valid coordinate can ever be produced, so a bad file is fatal here
	land, err := geo.LoadLandSet(generationOpts.LandFile)
	if err != nil {
		log.Logvf(log.Always, "error loading land polygons: %v", err)
		os.Exit(util.ExitError)
	}
	rs.Land = land
	log.Logvf(log.Info, "loaded %v land regions from %v", land.Regions(), generationOpts.LandFile)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rs.Rand = rnd
	rs.Facts = regseed.NewFactSource(rnd.Uint64())

	producer, err := payload.ForMode(generationOpts.Images, generationOpts.ImageSize, rnd)
	if err != nil {
		log.Logvf(log.Always, "error selecting image payload: %v", err)
		os.Exit(util.ExitBadOptions)
	}
	rs.Producer = producer

	if err = rs.AcquireSession(); err != nil {
		if errors.Is(err, regseed.ErrOperatorAbort) {
			os.Exit(util.ExitSuccess)
		}
		log.Logvf(log.Always, "no usable MongoDB connection: %v", err)
		os.Exit(util.ExitError)
	}
	defer rs.Close()

	report, err := rs.Run()
	if !opts.Quiet {
		if err != nil {
			log.Logvf(log.Always, "Failed: %v", err)
		}
		message := fmt.Sprintf("inserted 1 document")
		if report.Inserted() != 1 {
			message = fmt.Sprintf("inserted %v documents", report.Inserted())
		}
		log.Logvf(log.Always, message)
	}
	if err != nil {
		os.Exit(util.ExitError)
	}
}

func promptRecordCount(in *bufio.Reader, out io.Writer) uint {
	for {
		fmt.Fprint(out, "Enter the number of records to generate: ")
		line, err := in.ReadString('\n')
		if err != nil {
			log.Logvf(log.Always, "no record count supplied")
			os.Exit(util.ExitBadOptions)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		if err != nil || n == 0 {
			fmt.Fprintln(out, "Invalid input. Please enter a whole number.")
			continue
		}
		return uint(n)
	}
}

func promptImageMode(in *bufio.Reader, out io.Writer) string {
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Choose the type of images to generate:")
		fmt.Fprintln(out, "1) Cat pictures")
		fmt.Fprintln(out, "2) Randomly drawn images")
		fmt.Fprintln(out, "3) No images")
		fmt.Fprint(out, "Enter your choice (1/2/3): ")
		line, err := in.ReadString('\n')
		if err != nil {
			log.Logvf(log.Always, "no image choice supplied")
			os.Exit(util.ExitBadOptions)
		}
		switch strings.TrimSpace(line) {
		case "1":
			return payload.ModeCat
		case "2":
			return payload.ModeDrawn
		case "3":
			return payload.ModeNone
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

package regseed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	mgo "gopkg.in/mgo.v2"

	"github.com/oramatt/registration-app/common/log"
	"github.com/oramatt/registration-app/common/options"
	"github.com/oramatt/registration-app/common/util"
)

// ErrOperatorAbort is returned by acquisition when the operator explicitly
// chooses to quit instead of supplying another endpoint. It is a clean stop,
// not a failure.
var ErrOperatorAbort = errors.New("connection acquisition aborted by operator")

// ProbeFailureKind classifies why a single connection probe failed, so the
// caller can log the cause without re-deriving it.
type ProbeFailureKind int

const (
	ProbeMalformed ProbeFailureKind = iota
	ProbeUnreachable
	ProbeTimeout
	ProbeAuth
)

func (k ProbeFailureKind) String() string {
	switch k {
	case ProbeMalformed:
		return "malformed endpoint"
	case ProbeUnreachable:
		return "host unreachable"
	case ProbeTimeout:
		return "timed out"
	case ProbeAuth:
		return "auth rejected"
	}
	return "unknown failure"
}

// ProbeError carries the redacted endpoint, the failure class and the
// underlying cause of one failed probe.
type ProbeError struct {
	URI   string // already redacted
	Kind  ProbeFailureKind
	Cause error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe of %v failed (%v): %v", e.URI, e.Kind, e.Cause)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// probeEndpoint attempts to establish, authenticate and verify one
// connection. The timeout bounds the whole attempt: the liveness ping runs
// on whatever remains of the budget after the dial, because a server that
// accepts the socket but never answers is a failed probe, not a connection.
func probeEndpoint(uri string, timeout time.Duration, auth *options.Auth) (*mgo.Session, error) {
	redacted := util.RedactURI(uri)
	info, err := mgo.ParseURL(uri)
	if err != nil {
		return nil, &ProbeError{URI: redacted, Kind: ProbeMalformed, Cause: err}
	}
	if auth != nil && auth.Username != "" {
		info.Username = auth.Username
		info.Password = auth.Password
	}
	info.Timeout = timeout
	info.FailFast = true

	started := time.Now()
	session, err := mgo.DialWithInfo(info)
	if err != nil {
		return nil, &ProbeError{URI: redacted, Kind: classifyProbeFailure(err), Cause: err}
	}
	remaining := timeout - time.Since(started)
	if remaining <= 0 {
		session.Close()
		return nil, &ProbeError{
			URI:   redacted,
			Kind:  ProbeTimeout,
			Cause: fmt.Errorf("dial consumed the whole %v probe budget", timeout),
		}
	}
	session.SetSyncTimeout(remaining)
	session.SetSocketTimeout(remaining)
	if err := session.Ping(); err != nil {
		session.Close()
		return nil, &ProbeError{URI: redacted, Kind: classifyProbeFailure(err), Cause: err}
	}
	return session, nil
}

func classifyProbeFailure(err error) ProbeFailureKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProbeTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sasl"), strings.Contains(msg, "auth"):
		return ProbeAuth
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return ProbeTimeout
	}
	return ProbeUnreachable
}

// Prompter supplies replacement endpoints once every configured one has
// failed. NextEndpoint blocks on the operator; ok == false means abort.
type Prompter interface {
	NextEndpoint() (uri string, ok bool)
}

// TerminalPrompter drives the fallback dialogue over arbitrary reader and
// writer so tests can script it; NewTerminalPrompter binds it to the
// terminal.
type TerminalPrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		In:  bufio.NewReader(os.Stdin),
		Out: os.Stdout,
	}
}

func (p *TerminalPrompter) NextEndpoint() (string, bool) {
	for {
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, "All configured MongoDB URIs failed to connect.")
		fmt.Fprintln(p.Out, "1) Enter a new MongoDB URI manually")
		fmt.Fprintln(p.Out, "2) Quit")
		fmt.Fprint(p.Out, "Your choice (1/2): ")
		choice, err := p.In.ReadString('\n')
		if err != nil {
			return "", false
		}
		switch strings.TrimSpace(choice) {
		case "1":
			fmt.Fprint(p.Out, "Enter MongoDB URI (e.g. mongodb://localhost:27017/test): ")
			uri, err := p.In.ReadString('\n')
			if err != nil {
				return "", false
			}
			uri = strings.TrimSpace(uri)
			if uri == "" {
				fmt.Fprintln(p.Out, "Empty URI, please try again.")
				continue
			}
			return uri, true
		case "2":
			return "", false
		default:
			fmt.Fprintln(p.Out, "Invalid input. Please enter '1' or '2'.")
		}
	}
}

// prober is the probe indirection point; tests swap it for a scripted one.
type prober func(uri string, timeout time.Duration) (*mgo.Session, error)

// acquirer walks the prioritized endpoint list and then the interactive
// fallback loop until a probe succeeds or the operator aborts.
type acquirer struct {
	probe    prober
	timeout  time.Duration
	prompter Prompter
}

func (a *acquirer) acquire(uris []string) (*mgo.Session, error) {
	for _, uri := range uris {
		log.Logvf(log.Info, "attempting MongoDB URI: %v", util.RedactURI(uri))
		session, err := a.probe(uri, a.timeout)
		if err != nil {
			log.Logvf(log.Always, "connection failed: %v", err)
			continue
		}
		log.Logvf(log.Always, "connected successfully to %v", util.RedactURI(uri))
		return session, nil
	}

	for {
		uri, ok := a.prompter.NextEndpoint()
		if !ok {
			log.Logvf(log.Always, "exiting at operator request")
			return nil, ErrOperatorAbort
		}
		log.Logvf(log.Always, "trying operator-supplied URI: %v", util.RedactURI(uri))
		session, err := a.probe(uri, a.timeout)
		if err != nil {
			log.Logvf(log.Always, "connection failed: %v", err)
			continue
		}
		log.Logvf(log.Always, "connected successfully to %v", util.RedactURI(uri))
		return session, nil
	}
}

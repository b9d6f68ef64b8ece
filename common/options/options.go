// Package options implements the command line option groups shared by the
// tool: general, verbosity, connection, auth and namespace, plus a hook for
// tool-specific groups.
package options

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

// VersionStr is overridable at link time.
var VersionStr = "0.1.0-dev"

// ToolOptions aggregates the parsed option groups.
type ToolOptions struct {
	AppName string

	*General
	*Verbosity
	*Connection
	*Auth
	*Namespace

	parser *flags.Parser
}

type General struct {
	Help    bool `long:"help" description:"print usage"`
	Version bool `long:"version" description:"print the tool version and exit"`
}

func (*General) Name() string {
	return "general"
}

type Verbosity struct {
	Verbose []bool `short:"v" long:"verbose" description:"more detailed log output (include multiple times for more verbosity, e.g. -vvvvv)"`
	Quiet   bool   `long:"quiet" description:"hide all log output"`
}

func (*Verbosity) Name() string {
	return "verbosity"
}

func (v *Verbosity) Level() int {
	return len(v.Verbose)
}

func (v *Verbosity) IsQuiet() bool {
	return v.Quiet
}

// Connection describes where and how to reach the database. URIs are tried
// in the order given; the file extends the list after the flags.
type Connection struct {
	URIs           []string `long:"uri" value-name:"<uri>" description:"MongoDB URI to try, in priority order (repeatable)"`
	URIFile        string   `long:"uriFile" value-name:"<filename>" description:"YAML file holding a prioritized list of MongoDB URIs"`
	ProbeTimeoutMS int      `long:"probeTimeoutMS" value-name:"<ms>" default:"100" description:"hard budget for each connection probe, dial plus liveness ping, in milliseconds"`
}

func (*Connection) Name() string {
	return "connection"
}

type Auth struct {
	Username string `short:"u" long:"username" value-name:"<username>" description:"username for authentication"`
	Password string `short:"p" long:"password" value-name:"<password>" description:"password for authentication"`
}

func (*Auth) Name() string {
	return "authentication"
}

type Namespace struct {
	DB         string `short:"d" long:"db" value-name:"<database>" description:"database to use (default: test)"`
	Collection string `short:"c" long:"collection" value-name:"<collection>" description:"collection to use (default: registrations)"`
}

func (*Namespace) Name() string {
	return "namespace"
}

// EnabledOptions selects which shared option groups a tool registers.
type EnabledOptions struct {
	Auth       bool
	Connection bool
	Namespace  bool
}

// ExtraOptions is implemented by tool-specific option group structs.
type ExtraOptions interface {
	Name() string
}

// New returns a ToolOptions with the selected shared groups registered.
func New(appName, usageStr string, enabled EnabledOptions) *ToolOptions {
	opts := &ToolOptions{
		AppName:   appName,
		General:   &General{},
		Verbosity: &Verbosity{},
		parser:    flags.NewNamedParser(appName, flags.None),
	}
	opts.parser.Usage = usageStr

	opts.addGroup(opts.General)
	opts.addGroup(opts.Verbosity)
	if enabled.Connection {
		opts.Connection = &Connection{}
		opts.addGroup(opts.Connection)
	}
	if enabled.Auth {
		opts.Auth = &Auth{}
		opts.addGroup(opts.Auth)
	}
	if enabled.Namespace {
		opts.Namespace = &Namespace{}
		opts.addGroup(opts.Namespace)
	}
	return opts
}

// AddOptions registers a tool-specific option group.
func (o *ToolOptions) AddOptions(extra ExtraOptions) {
	o.addGroup(extra)
}

func (o *ToolOptions) addGroup(group ExtraOptions) {
	_, err := o.parser.AddGroup(group.Name()+" options", "", group)
	if err != nil {
		panic(fmt.Errorf("error setting command line options for %v: %v", group.Name(), err))
	}
}

// Parse parses os.Args and returns the remaining positional arguments.
func (o *ToolOptions) Parse() ([]string, error) {
	return o.parser.ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments, for tests.
func (o *ToolOptions) ParseArgs(args []string) ([]string, error) {
	return o.parser.ParseArgs(args)
}

// PrintHelp writes usage to stdout if requested (or forced) and reports
// whether it did.
func (o *ToolOptions) PrintHelp(force bool) bool {
	if force || o.General.Help {
		o.parser.WriteHelp(os.Stdout)
		return true
	}
	return false
}

// PrintVersion prints version info if requested and reports whether it did.
func (o *ToolOptions) PrintVersion() bool {
	if o.General.Version {
		fmt.Printf("%v version: %v\n", o.AppName, VersionStr)
		return true
	}
	return false
}

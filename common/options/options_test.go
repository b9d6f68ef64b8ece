package options

import "testing"

type extraOpts struct {
	Num uint `long:"num" short:"n"`
}

func (*extraOpts) Name() string {
	return "extra"
}

func newTestOptions() (*ToolOptions, *extraOpts) {
	opts := New("optest", "<options>", EnabledOptions{Auth: true, Connection: true, Namespace: true})
	extra := &extraOpts{}
	opts.AddOptions(extra)
	return opts, extra
}

func TestParseArgs(t *testing.T) {
	opts, extra := newTestOptions()
	args, err := opts.ParseArgs([]string{
		"-vv",
		"--uri", "mongodb://a:27017/test",
		"--uri", "mongodb://b:27017/test",
		"--db", "mydb",
		"-n", "5",
		"12",
	})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if len(args) != 1 || args[0] != "12" {
		t.Errorf("positional args = %v, want [12]", args)
	}
	if opts.Verbosity.Level() != 2 {
		t.Errorf("verbosity level = %v, want 2", opts.Verbosity.Level())
	}
	if opts.DB != "mydb" {
		t.Errorf("db = %q, want mydb", opts.DB)
	}
	if len(opts.Connection.URIs) != 2 || opts.Connection.URIs[0] != "mongodb://a:27017/test" {
		t.Errorf("URIs = %v, flag order not preserved", opts.Connection.URIs)
	}
	if opts.Connection.ProbeTimeoutMS != 100 {
		t.Errorf("default probe timeout = %v, want 100", opts.Connection.ProbeTimeoutMS)
	}
	if extra.Num != 5 {
		t.Errorf("extra group num = %v, want 5", extra.Num)
	}
}

func TestQuietVerbosity(t *testing.T) {
	opts, _ := newTestOptions()
	if _, err := opts.ParseArgs([]string{"--quiet"}); err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if !opts.Verbosity.IsQuiet() {
		t.Error("IsQuiet should be true after --quiet")
	}
	if opts.Verbosity.Level() != 0 {
		t.Errorf("level = %v, want 0", opts.Verbosity.Level())
	}
}

func TestUnknownFlagFails(t *testing.T) {
	opts, _ := newTestOptions()
	if _, err := opts.ParseArgs([]string{"--bogusFlag"}); err == nil {
		t.Fatal("unknown flag should be a parse error")
	}
}

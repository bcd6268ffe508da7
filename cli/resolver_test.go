package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	const doc = `
log:
  level: debug
  pretty: false
max_call_depth: 32
source:
  - a.sai
  - b.sai
ratio: 0.5
`

	res, err := resolve(t.Context())(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"max-call-depth", "32"},
		{"source", "a.sai,b.sai"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, doc := range []string{"", "- not\n- a mapping\n", "key: [unterminated"} {
		res, err := resolve(t.Context())(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}

		got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "key"}})
		if got != nil {
			t.Errorf("%q: resolved %#v", doc, got)
		}
	}
}

func TestRun_ConfigFile(t *testing.T) {
	var cli struct {
		Level  string   `default:"info" name:"log-level"`
		Depth  int      `default:"8"    name:"max-call-depth"`
		Source []string `name:"source"`
	}

	dir := t.TempDir()
	path := writeConfig(t, dir, "log-level: warn\nmax_call_depth: 99\nsource: [x.sai, y.sai]\n")

	parser, err := kong.New(&cli, kong.Configuration(resolve(t.Context()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level", "error"}); err != nil {
		t.Fatal(err)
	}

	if cli.Level != "error" {
		t.Errorf("flag did not override config: %q", cli.Level)
	}

	if cli.Depth != 99 {
		t.Errorf("depth = %d", cli.Depth)
	}

	if strings.Join(cli.Source, " ") != "x.sai y.sai" {
		t.Errorf("source = %q", cli.Source)
	}
}

package config

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/inconshreveable/log15.v2"
)

var configuration = `
server = "irc.example.net"
port = 6697
ssl = true
noverifycert = true
nick = "cmdbot"
username = "user"
realname = "Real Name"
password = "secret"
channels = ["#one", "#two"]
trigger = "."
nocorecmds = true
replytimeout = 30
loglevel = "debug"
logfile = "bot.log"
`

var yamlConfiguration = `
server: irc.example.net
port: 6697
ssl: true
noverifycert: true
nick: cmdbot
username: user
realname: Real Name
password: secret
channels:
  - "#one"
  - "#two"
trigger: "."
nocorecmds: true
replytimeout: 30
loglevel: debug
logfile: bot.log
`

type dyingReader struct{}

func (d dyingReader) Read(b []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func checkLoaded(t *testing.T, c *Config) {
	t.Helper()

	if ers := c.Errors(); len(ers) != 0 {
		t.Fatal("Unexpected errors:", ers)
	}
	if c.Server != "irc.example.net" || c.Port != 6697 || !c.SSL ||
		!c.NoVerifyCert {

		t.Errorf("Connection settings wrong: %s %d %v %v",
			c.Server, c.Port, c.SSL, c.NoVerifyCert)
	}
	if c.Nick != "cmdbot" || c.Username != "user" ||
		c.Realname != "Real Name" || c.Password != "secret" {

		t.Errorf("Identity wrong: %s %s %s %s",
			c.Nick, c.Username, c.Realname, c.Password)
	}
	if !reflect.DeepEqual(c.Channels, []string{"#one", "#two"}) {
		t.Error("Expected: [#one #two], got:", c.Channels)
	}
	if c.Trigger != "." || !c.NoCoreCmds || c.ReplyTimeout != 30 {
		t.Errorf("Command settings wrong: %s %v %d",
			c.Trigger, c.NoCoreCmds, c.ReplyTimeout)
	}
	if c.LogLevel != "debug" || c.LogFile != "bot.log" {
		t.Errorf("Log settings wrong: %s %s", c.LogLevel, c.LogFile)
	}
}

func TestConfig_New(t *testing.T) {
	t.Parallel()

	c := New()
	if c == nil {
		t.Fatal("Expected a configuration to be created.")
	}
	if c.Port != 6667 {
		t.Error("Expected: 6667, got:", c.Port)
	}
	if c.Trigger != "!" {
		t.Error("Expected: !, got:", c.Trigger)
	}
	if c.LogLevel != "info" {
		t.Error("Expected: info, got:", c.LogLevel)
	}
	if c.Filename() != defaultConfigFileName {
		t.Error("Expected the default file name, got:", c.Filename())
	}
}

func TestConfig_Clear(t *testing.T) {
	t.Parallel()

	c := New().FromString(configuration)
	c.errors = errList{errors.New("something")}
	c.filename = "filename"

	c.Clear()
	if len(c.Server) != 0 || len(c.Channels) != 0 || c.Trigger != "!" {
		t.Error("Values should be reset, got:", c.Server, c.Channels, c.Trigger)
	}
	if len(c.errors) != 0 {
		t.Error("Errors should be blank, got:", c.errors)
	}
	if len(c.filename) != 0 {
		t.Error("Filename should be blank, got:", c.filename)
	}
}

func TestConfig_FromString(t *testing.T) {
	t.Parallel()

	checkLoaded(t, New().FromString(configuration))
}

func TestConfig_FromReaderYAML(t *testing.T) {
	t.Parallel()

	checkLoaded(t, New().FromReader(strings.NewReader(yamlConfiguration), YAML))
}

func TestConfig_FormatsAgree(t *testing.T) {
	t.Parallel()

	tc := New().FromString(configuration)
	yc := New().FromReader(strings.NewReader(yamlConfiguration), YAML)

	tbuf, ybuf := &bytes.Buffer{}, &bytes.Buffer{}
	if err := tc.ToWriter(tbuf, TOML); err != nil {
		t.Fatal(err)
	}
	if err := yc.ToWriter(ybuf, TOML); err != nil {
		t.Fatal(err)
	}
	if tbuf.String() != ybuf.String() {
		t.Errorf("Expected the same config:\n%s\ngot:\n%s", tbuf, ybuf)
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	c := New().FromString(`
server = "irc.example.net"
nick = "bot"
`)
	if ers := c.Errors(); len(ers) != 0 {
		t.Fatal("Unexpected errors:", ers)
	}
	if c.Trigger != "!" {
		t.Error("Expected the trigger to default to !, got:", c.Trigger)
	}
	if c.Port != 6667 {
		t.Error("Expected: 6667, got:", c.Port)
	}
	if u, r := c.Ident(); u != "bot" || r != "bot" {
		t.Error("Expected the ident to fall back to the nick, got:", u, r)
	}
	if c.Timeout() != 0 {
		t.Error("Expected no timeout, got:", c.Timeout())
	}
	if c.Address() != "irc.example.net:6667" {
		t.Error("Expected: irc.example.net:6667, got:", c.Address())
	}
	if !c.IsValid() {
		t.Error("Expected it to be valid:", c.Errors())
	}
}

func TestConfig_Accessors(t *testing.T) {
	t.Parallel()

	c := New().FromString(configuration)
	if u, r := c.Ident(); u != "user" || r != "Real Name" {
		t.Error("Expected the configured ident, got:", u, r)
	}
	if c.Timeout() != 30*time.Second {
		t.Error("Expected: 30s, got:", c.Timeout())
	}
	if c.Level() != log15.LvlDebug {
		t.Error("Expected debug, got:", c.Level())
	}

	c.LogLevel = "nonsense"
	if c.Level() != log15.LvlInfo {
		t.Error("Expected info for a bad level, got:", c.Level())
	}
}

func TestConfig_FromReaderError(t *testing.T) {
	t.Parallel()

	c := New().FromReader(dyingReader{}, TOML)
	if ers := c.Errors(); len(ers) != 1 {
		t.Error("Expected one error, got:", ers)
	}
	if c.IsValid() {
		t.Error("A failed load should not be valid.")
	}

	c = New().FromString(`server = [`)
	if len(c.Errors()) != 1 {
		t.Error("Expected a toml error, got:", c.Errors())
	}

	c = New().FromReader(strings.NewReader("server: [\n"), YAML)
	if len(c.Errors()) != 1 {
		t.Error("Expected a yaml error, got:", c.Errors())
	}

	c = New().FromReader(strings.NewReader(""), YAML)
	if len(c.Errors()) != 0 {
		t.Error("An empty yaml file has no settings, got:", c.Errors())
	}
}

func TestConfig_FromFile(t *testing.T) {
	t.Parallel()

	dir, err := ioutil.TempDir("", "cmdbotconfig")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tomlFile := filepath.Join(dir, "bot.toml")
	yamlFile := filepath.Join(dir, "bot.yml")
	if err = ioutil.WriteFile(tomlFile, []byte(configuration), 0600); err != nil {
		t.Fatal(err)
	}
	if err = ioutil.WriteFile(yamlFile, []byte(yamlConfiguration), 0600); err != nil {
		t.Fatal(err)
	}

	c := New().FromFile(tomlFile)
	checkLoaded(t, c)
	if c.Filename() != tomlFile {
		t.Error("Expected the file name to be kept, got:", c.Filename())
	}

	checkLoaded(t, New().FromFile(yamlFile))

	c = New().FromFile(filepath.Join(dir, "missing.toml"))
	if len(c.Errors()) != 1 {
		t.Error("Expected an error for a missing file, got:", c.Errors())
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		File   string
		Expect Format
	}{
		{"config.toml", TOML},
		{"config.yaml", YAML},
		{"CONFIG.YML", YAML},
		{"config", TOML},
		{"dir.yaml/config.toml", TOML},
	}

	for _, test := range tests {
		if f := FormatOf(test.File); f != test.Expect {
			t.Errorf("%s Expected: %v, got: %v", test.File, test.Expect, f)
		}
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Config string
		Errors int
	}{
		{configuration, 0},
		{``, 2},
		{`nick = "bot"`, 1},
		{`server = "s"`, 1},
		{"server = \"s\"\nnick = \"bot\"\ntrigger = \"\"", 1},
		{"server = \"s\"\nnick = \"b t\"", 1},
		{"server = \"s\"\nnick = \"bot\"\nport = 0", 1},
		{"server = \"s\"\nnick = \"bot\"\ntrigger = \"! \"", 1},
		{"server = \"s\"\nnick = \"bot\"\nchannels = [\"#a\", \"\"]", 1},
		{"server = \"s\"\nnick = \"bot\"\nloglevel = \"loud\"", 1},
	}

	for i, test := range tests {
		c := New().FromString(test.Config)
		valid := c.IsValid()
		if valid != (test.Errors == 0) {
			t.Errorf("%d) Expected valid to be %v", i, test.Errors == 0)
		}
		if n := len(c.Errors()); n != test.Errors {
			t.Errorf("%d) Expected: %d errors, got: %v", i, test.Errors, c.Errors())
		}
	}
}

func TestConfig_DisplayErrors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log15.New()
	logger.SetHandler(log15.StreamHandler(buf, log15.LogfmtFormat()))

	c := New()
	c.IsValid()
	c.DisplayErrors(logger)

	if s := buf.String(); !strings.Contains(s, "server") ||
		!strings.Contains(s, "nick") {

		t.Error("Expected the errors to be logged, got:", s)
	}
}

package irc

import (
	"testing"
)

func TestHost(t *testing.T) {
	var host Host = "nick!user@host"

	if s := host.Nick(); s != "nick" {
		t.Errorf("Expected: nick, got: %s", s)
	}
	if s := host.Username(); s != "user" {
		t.Errorf("Expected: user, got: %s", s)
	}
	if s := host.Hostname(); s != "host" {
		t.Errorf("Expected: host, got: %s", s)
	}
	if s := host.String(); s != string(host) {
		t.Errorf("Expected: %v, got: %s", string(host), s)
	}

	host = "nick@user!host"
	if s := host.Nick(); s != "nick" {
		t.Errorf("Expected: nick, got: %s", s)
	}
	if s := host.Username(); len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := host.Hostname(); len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := host.String(); s != string(host) {
		t.Errorf("Expected: %v, got: %s", string(host), s)
	}

	host = "nick"
	if s := host.Nick(); s != "nick" {
		t.Errorf("Expected: nick, got: %s", s)
	}
	if s := host.Username(); len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := host.Hostname(); len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := host.String(); s != string(host) {
		t.Errorf("Expected: %v, got: %s", string(host), s)
	}
}

func TestHost_SplitHost(t *testing.T) {
	var nick, user, hostname string

	nick, user, hostname = Host("nick!user@host").Split()
	if s := nick; s != "nick" {
		t.Errorf("Expected: nick, got: %s", s)
	}
	if s := user; s != "user" {
		t.Errorf("Expected: user, got: %s", s)
	}
	if s := hostname; s != "host" {
		t.Errorf("Expected: host, got: %s", s)
	}

	nick, user, hostname = Host("ni ck!user@host").Split()
	if s := nick; len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := user; len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
	if s := hostname; len(s) != 0 {
		t.Errorf("Expected: empty string, got: %s", s)
	}
}

func TestHost_IsValid(t *testing.T) {
	tests := []struct {
		Host    Host
		IsValid bool
	}{
		{"", false},
		{"!@", false},
		{"nick", false},
		{"nick!", false},
		{"nick@", false},
		{"nick@host!user", false},
		{"nick!user@host", true},
	}

	for _, test := range tests {
		if result := test.Host.IsValid(); result != test.IsValid {
			t.Errorf("Expected '%v'.IsValid() to be %v.", test.Host, test.IsValid)
		}
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Prefix string
		Kind   PrefixKind
	}{
		{"", PrefixNone},
		{"irc.server.net", PrefixServer},
		{"nick!user@host.com", PrefixUser},
		{"nick@host.com", PrefixUser},
		{"nick", PrefixUser},
	}

	for _, test := range tests {
		if kind := Kind(test.Prefix); kind != test.Kind {
			t.Errorf("Expected Kind(%q) to be %v, got: %v",
				test.Prefix, test.Kind, kind)
		}
		if kind := Host(test.Prefix).Kind(); kind != test.Kind {
			t.Errorf("Expected Host(%q).Kind() to be %v, got: %v",
				test.Prefix, test.Kind, kind)
		}
	}
}

func TestPrefixKind_String(t *testing.T) {
	t.Parallel()

	if s := PrefixServer.String(); s != "server" {
		t.Errorf("Expected: server, got: %s", s)
	}
	if s := PrefixUser.String(); s != "user" {
		t.Errorf("Expected: user, got: %s", s)
	}
	if s := PrefixNone.String(); s != "none" {
		t.Errorf("Expected: none, got: %s", s)
	}
}

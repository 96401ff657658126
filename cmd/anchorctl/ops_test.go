package main

import (
	"flag"
	"testing"

	"github.com/sanjit-bhat/anchorage/registry"
)

func TestParseUntil(t *testing.T) {
	if _, err := parseUntil(""); err == nil {
		t.Fatal()
	}
	if _, err := parseUntil("soon"); err == nil {
		t.Fatal()
	}
	if u, err := parseUntil("permanent"); err != nil || u != registry.Permanent {
		t.Fatal()
	}
	if u, err := parseUntil("0"); err != nil || u != 0 {
		t.Fatal()
	}
	if u, err := parseUntil("42"); err != nil || u != 42 {
		t.Fatal()
	}
}

func TestSuspendNeedsUntil(t *testing.T) {
	cfg := &ctlConfig{Addr: "127.0.0.1:1", Transport: "advrpc", Hash: "blake2s"}
	fs := flag.NewFlagSet("suspend", flag.ContinueOnError)
	cfg.register(fs)
	err := runSuspend(cfg, fs, []string{"-admins", "00", "-leaf", "00"})
	if err == nil || err.Error() != "suspend: -until is required" {
		t.Fatal(err)
	}
}

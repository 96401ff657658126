// Command anchorctl manages keys and admin sets, and talks to anchord.
//
//	anchorctl keygen -out NAME
//	anchorctl adminroot [-member PUB] PUB...
//	anchorctl create -admins HEX -doc HEX
//	anchorctl revoke -key KEY -admins HEX -doc HEX [-proof HEX]
//	anchorctl suspend -key KEY -admins HEX -leaf HEX -until N [-proof HEX]
//	anchorctl lookup -admins HEX -doc HEX
//	anchorctl suspended -admins HEX -leaf HEX [-now N]
//	anchorctl events [-from N -link HEX]
//	anchorctl audit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/internal/config"
)

// ctlConfig is shared by every subcommand.
type ctlConfig struct {
	Addr      string `env:"ANCHORAGE_ADDR" envDefault:"127.0.0.1:6060"`
	Transport string `env:"ANCHORAGE_TRANSPORT" envDefault:"advrpc"`
	Hash      string `env:"ANCHORAGE_HASH" envDefault:"blake2s"`
}

func (c *ctlConfig) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "anchord address, host:port")
	fs.StringVar(&c.Transport, "transport", c.Transport, "advrpc, urpc, or grpc")
	fs.StringVar(&c.Hash, "hash", c.Hash, "the hash anchord runs with")
}

func (c *ctlConfig) hashFunc() cryptoffi.HashFunc {
	h, ok := cryptoffi.HashFuncByName(c.Hash)
	if !ok {
		log.Fatalf("unknown hash %q", c.Hash)
	}
	return h
}

type command struct {
	name  string
	usage string
	run   func(cfg *ctlConfig, fs *flag.FlagSet, args []string) error
}

var commands = []*command{
	{"keygen", "write NAME.pub and NAME.key", runKeygen},
	{"adminroot", "print the admin root over public keys, and a member's proof", runAdminRoot},
	{"create", "anchor a document root", runCreate},
	{"revoke", "revoke an anchor as an admin", runRevoke},
	{"suspend", "suspend a leaf as an admin", runSuspend},
	{"lookup", "show an anchor", runLookup},
	{"suspended", "check whether a leaf is suspended", runSuspended},
	{"events", "print and verify the event log", runEvents},
	{"audit", "replay the whole event log against the registry rules", runAudit},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: anchorctl COMMAND [flags]")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.usage)
	}
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("anchorctl: ")
	if len(os.Args) < 2 {
		usage()
	}
	var cfg ctlConfig
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal(err)
	}
	for _, c := range commands {
		if c.name != os.Args[1] {
			continue
		}
		fs := flag.NewFlagSet(c.name, flag.ExitOnError)
		cfg.register(fs)
		if err := c.run(&cfg, fs, os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}
	usage()
}

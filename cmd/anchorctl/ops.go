package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/sanjit-bhat/anchorage/auditor"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/server"
)

// digestFlags parses the named hex digest flags after fs.Parse.
type digestFlags map[string]*string

func (d digestFlags) add(fs *flag.FlagSet, name, usage string) {
	d[name] = fs.String(name, "", usage)
}

func (d digestFlags) get(name string) (cryptoffi.Digest, error) {
	return parseDigest(name, *d[name])
}

func printEvent(ev *registry.Event) {
	fmt.Printf("%s admins=%s target=%s caller=%s time=%d\n",
		ev.Kind, ev.Admins, ev.Target, ev.Caller, ev.Time)
}

func runCreate(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	d := digestFlags{}
	d.add(fs, "admins", "admin root, hex")
	d.add(fs, "doc", "document root, hex")
	fs.Parse(args)
	admins, err := d.get("admins")
	if err != nil {
		return err
	}
	doc, err := d.get("doc")
	if err != nil {
		return err
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	ev, err := cli.CreateAnchor(admins, doc)
	if err != nil {
		return err
	}
	printEvent(ev)
	return nil
}

func runRevoke(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	d := digestFlags{}
	d.add(fs, "admins", "admin root, hex")
	d.add(fs, "doc", "document root, hex")
	keyPath := fs.String("key", "admin.key", "signing key file")
	proofHex := fs.String("proof", "", "membership proof from adminroot, hex")
	fs.Parse(args)
	admins, err := d.get("admins")
	if err != nil {
		return err
	}
	doc, err := d.get("doc")
	if err != nil {
		return err
	}
	proof, err := parseProof(*proofHex)
	if err != nil {
		return err
	}
	sk, err := readKey(*keyPath)
	if err != nil {
		return err
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	ev, err := cli.RevokeAnchor(server.SignRevokeAnchor(sk, admins, doc, proof))
	if err != nil {
		return err
	}
	printEvent(ev)
	return nil
}

func runSuspend(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	d := digestFlags{}
	d.add(fs, "admins", "admin root, hex")
	d.add(fs, "leaf", "leaf digest, hex")
	keyPath := fs.String("key", "admin.key", "signing key file")
	proofHex := fs.String("proof", "", "membership proof from adminroot, hex")
	untilStr := fs.String("until", "", "last suspended time, inclusive, or \"permanent\". required")
	fs.Parse(args)
	until, err := parseUntil(*untilStr)
	if err != nil {
		return err
	}
	admins, err := d.get("admins")
	if err != nil {
		return err
	}
	leaf, err := d.get("leaf")
	if err != nil {
		return err
	}
	proof, err := parseProof(*proofHex)
	if err != nil {
		return err
	}
	sk, err := readKey(*keyPath)
	if err != nil {
		return err
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	ev, err := cli.SuspendLeaf(server.SignSuspendLeaf(sk, admins, leaf, proof, until))
	if err != nil {
		return err
	}
	printEvent(ev)
	return nil
}

// parseUntil wants an explicit time, since a suspension can never shrink.
func parseUntil(s string) (uint64, error) {
	switch s {
	case "":
		return 0, errors.New("suspend: -until is required")
	case "permanent":
		return registry.Permanent, nil
	}
	until, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("-until: %w", err)
	}
	return until, nil
}

func runLookup(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	d := digestFlags{}
	d.add(fs, "admins", "admin root, hex")
	d.add(fs, "doc", "document root, hex")
	fs.Parse(args)
	admins, err := d.get("admins")
	if err != nil {
		return err
	}
	doc, err := d.get("doc")
	if err != nil {
		return err
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	r, ok, err := cli.LookupAnchor(admins, doc)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("absent")
		return nil
	}
	fmt.Println(r)
	return nil
}

func runSuspended(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	d := digestFlags{}
	d.add(fs, "admins", "admin root, hex")
	d.add(fs, "leaf", "leaf digest, hex")
	now := fs.Uint64("now", 0, "time to check at. 0 asks the server")
	fs.Parse(args)
	admins, err := d.get("admins")
	if err != nil {
		return err
	}
	leaf, err := d.get("leaf")
	if err != nil {
		return err
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	t := *now
	if t == 0 {
		if t, err = cli.Now(); err != nil {
			return err
		}
	}
	sus, err := cli.IsSuspended(admins, leaf, t)
	if err != nil {
		return err
	}
	fmt.Printf("suspended=%t now=%d\n", sus, t)
	return nil
}

var errChain = errors.New("events: log does not extend the given link")

// runEvents pages through the log from -from, checking each page's
// chain proof. without -link, -from must be 0.
func runEvents(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	from := fs.Uint64("from", 0, "events already seen")
	linkHex := fs.String("link", "", "hashchain link after -from events, hex")
	fs.Parse(args)
	h := cfg.hashFunc()
	link := hashchain.EmptyLink(h)
	if *linkHex != "" {
		var err error
		if link, err = parseDigest("link", *linkHex); err != nil {
			return err
		}
	} else if *from != 0 {
		return errors.New("events: -from needs -link")
	}

	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	n := *from
	for {
		reply, err := cli.Events(n)
		if err != nil {
			return err
		}
		if !server.VerifyEvents(h, link, reply.Events, reply.ChainProof, reply.Link) {
			return errChain
		}
		for _, ev := range reply.Events {
			printEvent(ev)
		}
		n += uint64(len(reply.Events))
		link = reply.Link
		if uint64(len(reply.Events)) < server.MaxEventsPage {
			break
		}
	}
	fmt.Printf("len=%d link=%s\n", n, link)
	return nil
}

func runAudit(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	fs.Parse(args)
	cli, err := dial(cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	a, _ := auditor.New(cfg.hashFunc(), cli)
	if err := a.Update(); err != nil {
		return err
	}
	cp, err := a.Get(a.Len())
	if err != nil {
		return err
	}
	fmt.Printf("ok len=%d link=%s\n", cp.Len, cp.Link)
	return nil
}

package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sanjit-bhat/anchorage/adminset"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
)

func runKeygen(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	out := fs.String("out", "admin", "writes OUT.pub and OUT.key")
	fs.Parse(args)

	pk, sk := cryptoffi.SigGenerateKey()
	if err := os.WriteFile(*out+".pub", pk, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(*out+".key", cryptoffi.SigPrivateKeyEncode(sk), 0o600); err != nil {
		return err
	}
	fmt.Println(registry.AccountIdentity(cfg.hashFunc(), pk))
	return nil
}

func runAdminRoot(cfg *ctlConfig, fs *flag.FlagSet, args []string) error {
	member := fs.String("member", "", "public key file to print a proof for")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return errors.New("adminroot: no public key files")
	}
	h := cfg.hashFunc()

	var ids []registry.Identity
	for _, p := range fs.Args() {
		pk, err := readPub(p)
		if err != nil {
			return err
		}
		ids = append(ids, registry.AccountIdentity(h, pk))
	}
	set := adminset.New(h, ids)
	fmt.Println("root", set.Root())

	if *member == "" {
		return nil
	}
	pk, err := readPub(*member)
	if err != nil {
		return err
	}
	proof, errb := set.ProveMember(registry.AccountIdentity(h, pk))
	if errb {
		return fmt.Errorf("adminroot: %s is not in the set", *member)
	}
	fmt.Println("proof", encodeProof(proof))
	return nil
}

func readPub(path string) ([]byte, error) {
	pk, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, ok := cryptoffi.SigPublicKeyDecode(pk); !ok {
		return nil, fmt.Errorf("%s: not a public key", path)
	}
	return pk, nil
}

func readKey(path string) (*cryptoffi.SigPrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sk, ok := cryptoffi.SigPrivateKeyDecode(b)
	if !ok {
		return nil, fmt.Errorf("%s: not a private key", path)
	}
	return sk, nil
}

func parseDigest(name, s string) (cryptoffi.Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return cryptoffi.Digest{}, fmt.Errorf("-%s: %w", name, err)
	}
	d, errb := cryptoffi.DigestFrom(b)
	if errb {
		return cryptoffi.Digest{}, fmt.Errorf("-%s: want %d bytes, got %d", name, cryptoffi.HashLen, len(b))
	}
	return d, nil
}

func encodeProof(p merkle.Proof) string {
	return hex.EncodeToString(merkle.ProofEncode(nil, p))
}

// parseProof takes "" as the empty proof, for single-admin sets.
func parseProof(s string) (merkle.Proof, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("-proof: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	p, rem, errb := merkle.ProofDecode(b)
	if errb || len(rem) != 0 {
		return nil, errors.New("-proof: malformed")
	}
	return p, nil
}

package adminset

import (
	"testing"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/cryptoutil"
	"github.com/sanjit-bhat/anchorage/merkle"
)

type member struct{}

func makeMembers(h cryptoffi.HashFunc, n int) []cryptoutil.Hashed[member] {
	var ms []cryptoutil.Hashed[member]
	for i := 0; i < n; i++ {
		ms = append(ms, cryptoutil.HashOf[member](h, cryptoutil.Uint64(i)))
	}
	return ms
}

func TestEmpty(t *testing.T) {
	s := New[member](cryptoffi.Blake2s, nil)
	if !s.Root().IsEmpty() {
		t.Fatal()
	}
	if _, err := s.Prove(0); !err {
		t.Fatal()
	}
}

func TestSingle(t *testing.T) {
	h := cryptoffi.Blake2s
	ms := makeMembers(h, 1)
	s := New(h, ms)
	p, err := s.Prove(0)
	if err || len(p) != 0 {
		t.Fatal()
	}
	if s.Root().Digest() != cryptoffi.Sum(h, ms[0].Bytes()) {
		t.Fatal()
	}
}

func TestAllSizes(t *testing.T) {
	h := cryptoffi.Blake3
	for n := 1; n <= 33; n++ {
		ms := makeMembers(h, n)
		s := New(h, ms)
		for i, m := range ms {
			p, err := s.Prove(i)
			if err {
				t.Fatal(n, i)
			}
			if !merkle.VerifyProof(h, s.Root(), p, m) {
				t.Fatal(n, i)
			}
		}
		outsider := cryptoutil.HashOf[member](h, cryptoutil.Uint64(1000))
		p, _ := s.Prove(0)
		if merkle.VerifyProof(h, s.Root(), p, outsider) {
			t.Fatal(n)
		}
	}
}

func TestProveMember(t *testing.T) {
	h := cryptoffi.Sha512_256
	ms := makeMembers(h, 5)
	s := New(h, ms)
	p, err := s.ProveMember(ms[3])
	if err || !merkle.VerifyProof(h, s.Root(), p, ms[3]) {
		t.Fatal()
	}
	if _, err = s.ProveMember(cryptoutil.HashOf[member](h, cryptoutil.Uint64(99))); !err {
		t.Fatal()
	}
	if s.Len() != 5 {
		t.Fatal()
	}
}

package cryptoffi

import (
	"bytes"
	"log"

	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/signature"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// # Signature

// SigPrivateKey has an unexported signer, which can't be accessed outside
// the package, without reflection or unsafe.
type SigPrivateKey struct {
	h *keyset.Handle
	s tink.Signer
	// pk is the encoded public keyset, handed out as the signer's identity.
	pk []byte
}

// SigPublicKey is a parsed verifier.
type SigPublicKey struct {
	v tink.Verifier
}

// SigGenerateKey returns a fresh ED25519 key pair.
// the public key comes back encoded, see [SigPublicKeyDecode].
func SigGenerateKey() ([]byte, *SigPrivateKey) {
	h, err := keyset.NewHandle(signature.ED25519KeyTemplate())
	if err != nil {
		log.Fatal(err)
	}
	sk, err := newSigPrivateKey(h)
	if err != nil {
		log.Fatal(err)
	}
	return sk.PublicKey(), sk
}

func newSigPrivateKey(h *keyset.Handle) (*SigPrivateKey, error) {
	s, err := signature.NewSigner(h)
	if err != nil {
		return nil, err
	}
	hPub, err := h.Public()
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := hPub.WriteWithNoSecrets(keyset.NewBinaryWriter(buf)); err != nil {
		return nil, err
	}
	return &SigPrivateKey{h: h, s: s, pk: buf.Bytes()}, nil
}

// SigPrivateKeyEncode writes the key in the clear. keep the output secret.
func SigPrivateKeyEncode(sk *SigPrivateKey) []byte {
	buf := new(bytes.Buffer)
	if err := insecurecleartextkeyset.Write(sk.h, keyset.NewBinaryWriter(buf)); err != nil {
		log.Fatal(err)
	}
	return buf.Bytes()
}

// SigPrivateKeyDecode parses the output of [SigPrivateKeyEncode].
func SigPrivateKeyDecode(b []byte) (*SigPrivateKey, bool) {
	h, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(b)))
	if err != nil {
		return nil, true
	}
	sk, err := newSigPrivateKey(h)
	if err != nil {
		return nil, true
	}
	return sk, false
}

// PublicKey returns the encoded public key.
func (sk *SigPrivateKey) PublicKey() []byte {
	return bytes.Clone(sk.pk)
}

func (sk *SigPrivateKey) Sign(message []byte) []byte {
	sig, err := sk.s.Sign(message)
	if err != nil {
		log.Fatal(err)
	}
	return sig
}

// SigPublicKeyDecode parses an encoded public key.
// it errors on anything but a public ED25519 keyset.
func SigPublicKeyDecode(b []byte) (*SigPublicKey, bool) {
	h, err := keyset.ReadWithNoSecrets(keyset.NewBinaryReader(bytes.NewReader(b)))
	if err != nil {
		return nil, true
	}
	v, err := signature.NewVerifier(h)
	if err != nil {
		return nil, true
	}
	return &SigPublicKey{v: v}, false
}

// Verify errors if sig isn't a signature on message.
func (pk *SigPublicKey) Verify(message, sig []byte) bool {
	return pk.v.Verify(sig, message) != nil
}

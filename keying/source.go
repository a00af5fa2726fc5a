package keying

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"
)

// Source kinds understood by NewSource.
const (
	SourcePRNG       = "prng"       // lattigo PRNG with a fresh random key
	SourceKeyed      = "keyed"      // lattigo PRNG keyed by the secret
	SourcePassphrase = "passphrase" // SHAKE-256 of the secret
	SourceChaCha     = "chacha"     // ChaCha20 keystream seeded by SHA3-256 of the secret
	SourceCrypto     = "crypto"     // crypto/rand
)

var (
	// ErrSourceWidth reports an unsupported draw width.
	ErrSourceWidth = errors.New("keying: source width must be 1, 2 or 4 bytes")
	// ErrUnknownSource reports an unknown source kind.
	ErrUnknownSource = errors.New("keying: unknown source kind")
)

// passphraseLabel separates passphrase keying from other SHAKE-256 uses.
const passphraseLabel = "spider-cipher/passphrase/v1"

// ReaderSource draws little-endian unsigned integers of width bytes from r.
// It returns the source and its randMax, 2^(8*width)-1.
func ReaderSource(r io.Reader, width int) (Source, int64, error) {
	if r == nil {
		return nil, 0, fmt.Errorf("keying: nil reader")
	}
	if width != 1 && width != 2 && width != 4 {
		return nil, 0, fmt.Errorf("%w (got %d)", ErrSourceWidth, width)
	}
	randMax := int64(1)<<(8*uint(width)) - 1
	buf := make([]byte, 4)
	src := func() (int64, error) {
		b := buf[:width]
		if _, err := io.ReadFull(r, b); err != nil {
			return 0, fmt.Errorf("read: %w", err)
		}
		switch width {
		case 1:
			return int64(b[0]), nil
		case 2:
			return int64(binary.LittleEndian.Uint16(b)), nil
		default:
			return int64(binary.LittleEndian.Uint32(b)), nil
		}
	}
	return src, randMax, nil
}

// NewPRNGSource draws from a lattigo PRNG under a fresh random key.
func NewPRNGSource(width int) (Source, int64, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, 0, fmt.Errorf("keying: prng: %w", err)
	}
	return PRNGSource(prng, width)
}

// NewKeyedSource draws from a lattigo PRNG keyed by key. The same key
// always yields the same deck.
func NewKeyedSource(key []byte, width int) (Source, int64, error) {
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		return nil, 0, fmt.Errorf("keying: keyed prng: %w", err)
	}
	return PRNGSource(prng, width)
}

// PRNGSource draws from an existing lattigo PRNG.
func PRNGSource(prng utils.PRNG, width int) (Source, int64, error) {
	if prng == nil {
		return nil, 0, fmt.Errorf("keying: nil PRNG")
	}
	return ReaderSource(prng, width)
}

// NewPassphraseSource expands salt and passphrase with SHAKE-256.
func NewPassphraseSource(passphrase, salt []byte, width int) (Source, int64, error) {
	h := sha3.NewShake256()
	var n [8]byte
	for _, part := range [][]byte{[]byte(passphraseLabel), salt, passphrase} {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(part)
	}
	return ReaderSource(h, width)
}

// NewChaChaSource draws from the ChaCha20 keystream under seed with a zero
// nonce.
func NewChaChaSource(seed *[32]byte, width int) (Source, int64, error) {
	if seed == nil {
		return nil, 0, fmt.Errorf("keying: nil seed")
	}
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, 0, fmt.Errorf("keying: chacha20: %w", err)
	}
	return ReaderSource(keystream{c}, width)
}

// CryptoSource draws from crypto/rand.
func CryptoSource(width int) (Source, int64, error) {
	return ReaderSource(rand.Reader, width)
}

// NewSource builds a source by kind. secret is ignored by the prng and
// crypto kinds and required by the others.
func NewSource(kind string, secret []byte, width int) (Source, int64, error) {
	switch kind {
	case SourcePRNG:
		return NewPRNGSource(width)
	case SourceCrypto:
		return CryptoSource(width)
	case SourceKeyed, SourcePassphrase, SourceChaCha:
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
	if len(secret) == 0 {
		return nil, 0, fmt.Errorf("keying: source %q needs a secret", kind)
	}
	switch kind {
	case SourceKeyed:
		return NewKeyedSource(secret, width)
	case SourcePassphrase:
		return NewPassphraseSource(secret, nil, width)
	default:
		seed := sha3.Sum256(secret)
		return NewChaChaSource(&seed, width)
	}
}

// keystream reads the raw ChaCha20 keystream.
type keystream struct {
	c *chacha20.Cipher
}

func (k keystream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	k.c.XORKeyStream(p, p)
	return len(p), nil
}

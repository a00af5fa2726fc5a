// Package keys persists deck keys as JSON documents.
package keys

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"

	"spider-cipher/deck"
)

// Version tags the current key document layout.
const Version = "spider-deck-v1"

var (
	// ErrVersion reports a key document with an unknown version.
	ErrVersion = errors.New("keys: unsupported key version")
	// ErrFingerprint reports a key whose cards do not match its fingerprint.
	ErrFingerprint = errors.New("keys: fingerprint mismatch")
)

// Key is a deck key persisted to JSON.
type Key struct {
	Version     string `json:"version"`
	Cards       []int  `json:"cards"`
	Fingerprint string `json:"fingerprint"`
}

// Fingerprint returns the first 16 bytes of SHA3-256 over the deck's cards,
// hex encoded.
func Fingerprint(d *deck.Deck) string {
	var buf [deck.Cards]byte
	for at := 0; at < deck.Cards; at++ {
		buf[at] = byte(d.At(at))
	}
	sum := sha3.Sum256(buf[:])
	for i := range buf {
		buf[i] = 0
	}
	return hex.EncodeToString(sum[:16])
}

// New builds the document for d.
func New(d *deck.Deck) *Key {
	k := &Key{Version: Version, Cards: make([]int, deck.Cards)}
	for at := range k.Cards {
		k.Cards[at] = int(d.At(at))
	}
	k.Fingerprint = Fingerprint(d)
	return k
}

// Deck validates the document and returns its deck.
func (k *Key) Deck() (deck.Deck, error) {
	if k.Version != Version {
		return deck.Deck{}, fmt.Errorf("%w: %q", ErrVersion, k.Version)
	}
	cards := make([]deck.Card, len(k.Cards))
	for i, c := range k.Cards {
		if c < 0 || c >= deck.Cards {
			return deck.Deck{}, fmt.Errorf("%w: %w: card %d at %d", deck.ErrKeying, deck.ErrCardRange, c, i)
		}
		cards[i] = deck.Card(c)
	}
	d, err := deck.FromCards(cards)
	if err != nil {
		return deck.Deck{}, err
	}
	if got := Fingerprint(&d); got != k.Fingerprint {
		d.Clear()
		return deck.Deck{}, fmt.Errorf("%w: got=%s want=%s", ErrFingerprint, got, k.Fingerprint)
	}
	return d, nil
}

// Save writes d to path, creating parent directories as needed. The file is
// readable by its owner only.
func Save(path string, d *deck.Deck) error {
	if d == nil {
		return fmt.Errorf("keys: nil deck")
	}
	if err := d.Check(); err != nil {
		return fmt.Errorf("keys: save: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(New(d)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads and verifies the key stored at path.
func Load(path string) (deck.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return deck.Deck{}, err
	}
	var k Key
	if err := json.Unmarshal(data, &k); err != nil {
		return deck.Deck{}, fmt.Errorf("keys: decode %s: %w", path, err)
	}
	return k.Deck()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"spider-cipher/deck"
	"spider-cipher/internal/config"
	"spider-cipher/keying"
	"spider-cipher/keyring"
	"spider-cipher/keys"
	"spider-cipher/spider"
)

func usage() {
	fmt.Println(`usage: spider <keygen|scramble|unscramble|fingerprint|keyring> [options]

Subcommands:
  keygen       Randomize a deck key and save it to a JSON file or the keyring
               Flags:
                 -config <path>   JSON settings file
                 -source <kind>   prng|keyed|passphrase|chacha|crypto
                 -secret <string> secret for keyed, passphrase and chacha sources
                 -width  <int>    bytes per source draw: 1, 2 or 4
                 -out    <path>   key file (default from config)
                 -name   <name>   store in the keyring instead of a file

  scramble     Encrypt cards (decimal 0..39) given as arguments or on stdin
  unscramble   Decrypt cards
               Flags:
                 -config <path>   JSON settings file
                 -key    <path>   key file (default from config)
                 -name   <name>   keyring entry to use instead of a key file

  fingerprint  Print the fingerprint of a key (same -config/-key/-name flags)

  keyring list       List stored keys
  keyring rm <name>  Delete a stored key`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keygen":
		runKeygen(os.Args[2:])
	case "scramble":
		runCipher("scramble", os.Args[2:])
	case "unscramble":
		runCipher("unscramble", os.Args[2:])
	case "fingerprint":
		runFingerprint(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	default:
		usage()
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	cfgPath := fs.String("config", "", "JSON settings file")
	source := fs.String("source", "", "keying source kind (default from config)")
	secret := fs.String("secret", "", "secret for keyed sources")
	width := fs.Int("width", 0, "bytes per source draw (default from config)")
	out := fs.String("out", "", "key file (default from config)")
	name := fs.String("name", "", "keyring entry name")
	fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if *source != "" {
		cfg.Source = *source
	}
	if *width != 0 {
		cfg.SourceWidth = *width
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("keygen: %v", err)
	}

	src, randMax, err := keying.NewSource(cfg.Source, []byte(*secret), cfg.SourceWidth)
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	var d deck.Deck
	defer d.Clear()
	if err := keying.Randomize(&d, src, randMax); err != nil {
		log.Fatalf("keygen: %v", err)
	}
	log.Printf("[keygen] source=%s width=%d fingerprint=%s", cfg.Source, cfg.SourceWidth, keys.Fingerprint(&d))

	if *name != "" {
		kr := openKeyring(cfg)
		defer kr.Close()
		if err := kr.Put(context.Background(), *name, &d); err != nil {
			log.Fatalf("keygen: %v", err)
		}
		fmt.Printf("key %q stored in %s\n", *name, cfg.Keyring)
		return
	}
	path := cfg.KeyFile
	if *out != "" {
		path = *out
	}
	if err := keys.Save(path, &d); err != nil {
		log.Fatalf("keygen: %v", err)
	}
	fmt.Printf("key written to %s\n", path)
}

type keyFlags struct {
	cfgPath *string
	key     *string
	name    *string
}

func addKeyFlags(fs *flag.FlagSet) keyFlags {
	return keyFlags{
		cfgPath: fs.String("config", "", "JSON settings file"),
		key:     fs.String("key", "", "key file (default from config)"),
		name:    fs.String("name", "", "keyring entry name"),
	}
}

func (kf keyFlags) load() deck.Deck {
	cfg := loadConfig(*kf.cfgPath)
	if *kf.name != "" {
		kr := openKeyring(cfg)
		defer kr.Close()
		d, err := kr.Get(context.Background(), *kf.name)
		if err != nil {
			log.Fatalf("load key: %v", err)
		}
		return d
	}
	path := cfg.KeyFile
	if *kf.key != "" {
		path = *kf.key
	}
	d, err := keys.Load(path)
	if err != nil {
		log.Fatalf("load key %s: %v", path, err)
	}
	return d
}

func openKeyring(cfg *config.Config) *keyring.Keyring {
	kr, err := keyring.Open(cfg.Keyring)
	if err != nil {
		log.Fatalf("keyring: %v", err)
	}
	return kr
}

func runCipher(mode string, args []string) {
	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	kf := addKeyFlags(fs)
	fs.Parse(args)

	key := kf.load()
	defer key.Clear()

	fields := fs.Args()
	if len(fields) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("%s: read stdin: %v", mode, err)
		}
		fields = strings.Fields(string(data))
	}
	in, err := parseCards(fields)
	if err != nil {
		log.Fatalf("%s: %v", mode, err)
	}

	s := spider.NewSession(&key)
	defer s.Clear()
	out := make([]deck.Card, len(in))
	if mode == "scramble" {
		_, err = s.ScrambleCards(out, in)
	} else {
		_, err = s.UnscrambleCards(out, in)
	}
	if err != nil {
		log.Fatalf("%s: %v", mode, err)
	}

	group := 0
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		group = 5
	}
	fmt.Println(formatCards(out, group))
}

func runFingerprint(args []string) {
	fs := flag.NewFlagSet("fingerprint", flag.ExitOnError)
	kf := addKeyFlags(fs)
	fs.Parse(args)

	key := kf.load()
	defer key.Clear()
	fmt.Println(keys.Fingerprint(&key))
}

func runKeyring(args []string) {
	fs := flag.NewFlagSet("keyring", flag.ExitOnError)
	cfgPath := fs.String("config", "", "JSON settings file")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) == 0 {
		usage()
	}

	cfg := loadConfig(*cfgPath)
	kr := openKeyring(cfg)
	defer kr.Close()
	ctx := context.Background()

	switch rest[0] {
	case "list":
		entries, err := kr.List(ctx)
		if err != nil {
			log.Fatalf("keyring list: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("%-20s %s %s\n", e.Name, e.Fingerprint, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case "rm":
		if len(rest) != 2 {
			usage()
		}
		if err := kr.Delete(ctx, rest[1]); err != nil {
			log.Fatalf("keyring rm: %v", err)
		}
		log.Printf("[keyring] removed %q", rest[1])
	default:
		usage()
	}
}

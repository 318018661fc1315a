// confuzzle encrypts or decrypts a single file with a password-derived
// AES-CTR keystream.
//
// Usage:
//
//	confuzzle -i <path> [-o <path>] (-e|-d) [-p <password>] [-s]
//
// Options:
//
//	-i   Input file path (required)
//	-o   Output file path (default: <input>.cfz for -e; for -d, <input without .cfz>,
//	     or <input>.plain when the input has no .cfz suffix)
//	-e   Encrypt the input file
//	-d   Decrypt the input file
//	-p   Password (if omitted, read from the CONFUZZLE_PASSWORD environment variable)
//	-s   Silent: suppress the summary line on success
//
// Example:
//
//	confuzzle -i notes.txt -e -p "correct-horse-battery-staple"
//	confuzzle -i notes.txt.cfz -d -p "correct-horse-battery-staple"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Benrnz/Confuzzle/pkg/confuzzle"
)

const encryptedSuffix = ".cfz"

func main() {
	inputPath := flag.String("i", "", "input file path (required)")
	outputPath := flag.String("o", "", "output file path (default derived from -i)")
	encrypt := flag.Bool("e", false, "encrypt the input file")
	decrypt := flag.Bool("d", false, "decrypt the input file")
	password := flag.String("p", "", "password (default: read from CONFUZZLE_PASSWORD)")
	silent := flag.Bool("s", false, "suppress the summary line on success")
	flag.Parse()

	if *inputPath == "" {
		log.Fatalf("confuzzle: -i is required")
	}
	if *encrypt == *decrypt {
		log.Fatalf("confuzzle: specify exactly one of -e or -d")
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv("CONFUZZLE_PASSWORD")
	}
	if pw == "" {
		log.Fatalf("confuzzle: no password supplied via -p or CONFUZZLE_PASSWORD")
	}

	out := *outputPath
	if out == "" {
		out = deriveOutputPath(*inputPath, *encrypt)
	}

	var err error
	if *encrypt {
		err = confuzzle.EncryptFile(*inputPath).WithPassword(pw).IntoFile(out)
	} else {
		err = confuzzle.DecryptFile(*inputPath).WithPassword(pw).IntoFile(out)
	}
	if err != nil {
		log.Fatalf("confuzzle: %v", err)
	}

	if !*silent {
		verb := "Encrypted"
		if *decrypt {
			verb = "Decrypted"
		}
		fmt.Printf("%s %s -> %s\n", verb, *inputPath, out)
	}
}

func deriveOutputPath(in string, encrypting bool) string {
	if encrypting {
		return in + encryptedSuffix
	}
	if strings.HasSuffix(in, encryptedSuffix) {
		return strings.TrimSuffix(in, encryptedSuffix)
	}
	return in + ".plain"
}

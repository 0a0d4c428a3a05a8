// gen-signing-key generates a fresh HMAC signing key and prints the value
// to embed at build time.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		fmt.Printf("error while generating key: %v\n", err)
		os.Exit(1)
	}

	encoded := base64.StdEncoding.EncodeToString(key)

	if len(os.Args) == 2 {
		if err := os.WriteFile(os.Args[1], []byte(encoded), 0400); err != nil {
			fmt.Printf("error while writing key: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(encoded)
	fmt.Println()
	fmt.Println("Embed it in client and vendor builds with:")
	fmt.Printf("  go build -ldflags \"-X github.com/blackowiak/blackowiak-llm/pkg/license.SigningKeyBase64=%s\" ./...\n", encoded)
}

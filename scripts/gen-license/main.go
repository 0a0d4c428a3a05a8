// gen-license is the vendor-side tool that issues license codes. It never
// ships to customers: it needs the signing key, which customers must only
// hold inside the client binary.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blackowiak/blackowiak-llm/pkg/license"
)

func main() {
	var email string
	var licenseType string
	var expiryDays int
	var expiryTimeStr string
	var maxUses int
	var keyBase64 string

	flag.StringVar(&email, "email", "", "Customer email address")
	flag.StringVar(&licenseType, "type", string(license.Standard), "License type (trial, standard, professional)")
	flag.IntVar(&expiryDays, "expiration-days", -1, "Days until license expires")
	flag.StringVar(&expiryTimeStr, "expiration-date", "", "Datetime that license expires (in RFC3339 format, e.g. 2006-01-02T15:04:05Z)")
	flag.IntVar(&maxUses, "max-uses", -1, "Maximum number of uses (-1 for unlimited)")
	flag.StringVar(&keyBase64, "key", "", "Base64 signing key (defaults to the build-embedded key)")
	flag.Parse()

	if email == "" {
		log.Fatal("Please specify -email")
	}

	if !license.Type(licenseType).Valid() {
		log.WithField("type", licenseType).Fatal("Unknown license type")
	}

	now := time.Now().UTC()
	expiryTime, err := time.Parse(time.RFC3339, expiryTimeStr)
	if err != nil {
		_, ok := err.(*time.ParseError)
		if !ok {
			log.WithError(err).Fatal("Failed to parse expiration datetime")
		}
		// This is a ParseError, so just use expiryDays instead.
		if expiryDays == -1 {
			log.Fatal("Please specify -expiration-days or -expiration-date")
		}
		expiryTime = now.Add(time.Duration(expiryDays*24) * time.Hour)
	}
	expiryTime = expiryTime.UTC()
	if !expiryTime.After(now) {
		log.Fatal("Expiration must be in the future")
	}

	signer := license.DefaultSigner()
	if keyBase64 != "" {
		key, err := base64.StdEncoding.DecodeString(keyBase64)
		if err != nil {
			log.WithError(err).Fatal("Failed to decode signing key")
		}
		signer = license.NewSigner(key)
	}

	data := license.Data{
		Email:   email,
		Type:    license.Type(licenseType),
		Issued:  now,
		Expires: expiryTime,
		Version: license.SchemaVersion,
	}
	if maxUses != -1 {
		data.MaxUses = &maxUses
	}

	canonical, err := license.Canonical(data)
	if err != nil {
		log.WithError(err).Fatal("Failed to serialize license")
	}

	code, err := license.Encode(data, signer.Sign(canonical))
	if err != nil {
		log.WithError(err).Fatal("Failed to encode license")
	}

	maxUsesStr := "Unlimited"
	if data.MaxUses != nil {
		maxUsesStr = fmt.Sprintf("%d", *data.MaxUses)
	}

	fmt.Println("LICENSE CODE GENERATED")
	fmt.Printf("Customer: %s\n", email)
	fmt.Printf("Type: %s\n", licenseType)
	fmt.Printf("Expires: %s\n", expiryTime.Format(time.RFC822))
	fmt.Printf("Max uses: %s\n", maxUsesStr)
	fmt.Println()
	fmt.Println("LICENSE CODE:")
	fmt.Println(code)
	fmt.Println()
	fmt.Println("Customer activation command:")
	fmt.Printf("  blackowiak-llm activate %s\n", code)
}

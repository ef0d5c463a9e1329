package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cantalupo555/hltv-demo-downloader/internal/listing"
)

// promptListingURL asks on in until a stats listing URL is entered.
func promptListingURL(in io.Reader, out io.Writer, marker string) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter the HLTV stats URL: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", errors.New("no listing URL entered")
		}
		raw := strings.TrimSpace(scanner.Text())
		if listing.IsListingURL(raw, marker) {
			return raw, nil
		}
		fmt.Fprintln(out, "Incorrect link format. Please enter a valid HLTV stats URL.")
	}
}

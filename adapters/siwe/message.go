// Package siwe parses and verifies sign-in-with-Ethereum messages against
// the nonce store and the server's domain/chain configuration.
package siwe

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Kurooo23/AsiqTIX/core"
)

const domainSuffix = " wants you to sign in with your Ethereum account:"

var addressExpr = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

// Parse extracts the structured fields from a raw sign-in message. It accepts
// the full EIP-4361 layout as well as the lite variant wallets produce from a
// plain template, as long as an address and a "Nonce:" line are present.
func Parse(raw string) (*core.SignInMessage, error) {
	msg := &core.SignInMessage{Raw: raw}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if i == 0 && strings.HasSuffix(trimmed, domainSuffix) {
			msg.Domain = strings.TrimSuffix(trimmed, domainSuffix)
			continue
		}

		if msg.Address == "" {
			if m := addressExpr.FindString(trimmed); m != "" && !strings.Contains(trimmed, ":") {
				msg.Address = core.NormalizeAddress(m)
				continue
			}
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "URI":
			// The URI value itself contains a colon; re-split keeping it whole.
			msg.URI = strings.TrimSpace(strings.TrimPrefix(trimmed, "URI:"))
		case "Version":
			msg.Version = value
		case "Chain ID":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil {
				msg.ChainID = id
			}
		case "Nonce":
			msg.Nonce = value
		case "Issued At":
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				msg.IssuedAt = ts
			}
		case "Expiration Time":
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				msg.ExpirationTime = ts
			}
		}
	}

	// Fallback: address embedded anywhere in the message body.
	if msg.Address == "" {
		if m := addressExpr.FindString(raw); m != "" {
			msg.Address = core.NormalizeAddress(m)
		}
	}

	if msg.Address == "" || msg.Nonce == "" {
		return nil, core.ErrMalformedMessage
	}
	return msg, nil
}

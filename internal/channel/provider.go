package channel

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Account identifies the channel a credential resolves to.
type Account struct {
	Name   string
	Handle string
}

// Provider performs the actual link handshake for a credential.
type Provider interface {
	Connect(ctx context.Context, credential string) (*Account, error)
}

// SimulatedProvider derives a plausible channel identity from the credential
// itself. It stands in for a real platform handshake.
type SimulatedProvider struct{}

// Connect resolves the credential into an account. Blank credentials are
// rejected; everything else succeeds.
func (SimulatedProvider) Connect(ctx context.Context, credential string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, errors.New("credential required")
	}

	slug := strings.ToLower(credential)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	caser := cases.Title(language.English)
	name := caser.String(strings.ReplaceAll(slug, "-", " "))

	return &Account{Name: name, Handle: "@" + slug}, nil
}

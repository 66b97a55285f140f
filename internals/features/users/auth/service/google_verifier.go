package service

import (
	"errors"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

// GoogleCertsVerifier checks the ID token signature against Google's public certs.
type GoogleCertsVerifier struct {
	ClientID string
}

func (g GoogleCertsVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	if strings.TrimSpace(g.ClientID) == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID non défini")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	if claimSet.Sub == "" || claimSet.Email == "" {
		return nil, errors.New("id token sans sub/email")
	}
	return &GoogleIdentity{
		Sub:   claimSet.Sub,
		Email: strings.ToLower(strings.TrimSpace(claimSet.Email)),
		Name:  strings.TrimSpace(claimSet.Name),
	}, nil
}

package link

import (
	"net/url"

	"github.com/arclabs/arcflow/types"
)

// The claim URL is the only persisted state in the system: the plaintext
// secret rides in a query parameter and is never sent to any server, only to
// the contract as claim proof.

// BuildClaimURL appends the secret to the claim page URL.
func BuildClaimURL(base, secret string) (string, error) {
	if secret == "" {
		return "", types.NewError(types.ErrCodeValidation, "secret is required", nil)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", types.NewError(types.ErrCodeValidation, "invalid claim base url", err)
	}
	q := u.Query()
	q.Set("secret", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseClaimURL extracts the secret from a shared claim URL so the claim
// form can be pre-filled.
func ParseClaimURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", types.NewError(types.ErrCodeValidation, "invalid claim url", err)
	}
	secret := u.Query().Get("secret")
	if secret == "" {
		return "", types.NewError(types.ErrCodeValidation, "claim url carries no secret", nil)
	}
	return secret, nil
}

package cdn

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"sort"
	"strings"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

// Signer produces upload signatures the CDN verifies: sha1 over the
// alphabetically sorted "key=value" pairs joined by "&", followed by the secret.
type Signer struct {
	CloudName string
	APIKey    string
	APISecret string
}

func NewSigner(cloudName, apiKey, apiSecret string) *Signer {
	return &Signer{CloudName: cloudName, APIKey: apiKey, APISecret: apiSecret}
}

func (s *Signer) Sign(params map[string]string) (usecase.UploadSignature, error) {
	if s.APISecret == "" {
		return usecase.UploadSignature{}, errors.New("cdn secret not configured")
	}
	return usecase.UploadSignature{
		Signature: Signature(params, s.APISecret),
		APIKey:    s.APIKey,
		CloudName: s.CloudName,
	}, nil
}

func Signature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Package auth implements the HMAC-SHA256 request-signing scheme shared by
// the BTP session (auth token) and the REST façade (signed headers). It is
// specified alongside the wire protocol because it is itself a wire
// contract: spec.md §4.4, §9 "HMAC key encoding".
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header names attached to every HMAC-authenticated REST request.
const (
	HeaderConnectionID = "BTNL-CONNECTION-ID"
	HeaderTimestamp    = "BTNL-AUTH-TIMESTAMP"
	HeaderSignature    = "BTNL-SIGNATURE"
)

// TimestampLayout is the ISO-8601 UTC millisecond-precision layout the
// canonical string and the BTNL-AUTH-TIMESTAMP header both use.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrorKind classifies an AuthError.
type ErrorKind int

const (
	// BadTokenLength means the auth token's textual form isn't usable as
	// an HMAC key (empty).
	BadTokenLength ErrorKind = iota
	// SigningFailed means the underlying MAC computation could not run.
	SigningFailed
)

// AuthError is raised before any network contact — signing is pure and
// local, so a failure here never touches the transport.
type AuthError struct {
	Kind    ErrorKind
	Context string
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case BadTokenLength:
		return fmt.Sprintf("auth: bad token length: %s", e.Context)
	case SigningFailed:
		return fmt.Sprintf("auth: signing failed: %s", e.Context)
	default:
		return fmt.Sprintf("auth: %s", e.Context)
	}
}

// Param is one query parameter in mapping-iteration order. Value is either
// a string (scalar), a []string (sequence, repeats the key), or nil
// (absent — omitted from the canonical string entirely).
type Param struct {
	Key   string
	Value any
}

// Str builds a scalar Param, skipped if v is empty.
func Str(key, v string) Param {
	if v == "" {
		return Param{Key: key, Value: nil}
	}
	return Param{Key: key, Value: v}
}

// Int builds a scalar integer Param.
func Int(key string, v int64) Param {
	return Param{Key: key, Value: strconv.FormatInt(v, 10)}
}

// Seq builds a sequence Param, skipped if empty.
func Seq(key string, v []string) Param {
	if len(v) == 0 {
		return Param{Key: key, Value: nil}
	}
	return Param{Key: key, Value: v}
}

// CanonicalQuery renders params into the signing-only canonical form:
// starts with "?", entries joined by "?", sequence values repeat the key
// joined by "?". This is NOT URL-escaped — the HTTP layer separately
// URL-encodes the actual query string it transmits (spec.md §4.4).
func CanonicalQuery(params []Param) string {
	var parts []string
	for _, p := range params {
		switch v := p.Value.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			parts = append(parts, p.Key+"="+v)
		case []string:
			var terms []string
			for _, item := range v {
				if item == "" {
					continue
				}
				terms = append(terms, p.Key+"="+item)
			}
			if len(terms) > 0 {
				parts = append(parts, strings.Join(terms, "?"))
			}
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", p.Key, v))
		}
	}
	return "?" + strings.Join(parts, "?")
}

// Signer produces BTNL-* headers for REST requests using the textual auth
// token as the HMAC-SHA256 key — the exact bytes of the provided string,
// never its decoded form (spec.md §9).
type Signer struct {
	ConnectionID uint64
	AuthToken    string
}

// NewSigner builds a Signer, rejecting an empty token up front since an
// empty HMAC key signs nothing meaningful.
func NewSigner(connectionID uint64, authToken string) (*Signer, error) {
	if authToken == "" {
		return nil, &AuthError{Kind: BadTokenLength, Context: "auth_token must not be empty"}
	}
	return &Signer{ConnectionID: connectionID, AuthToken: authToken}, nil
}

// Canonical builds the canonical string for a request: METHOD, PATH, QUERY,
// then the timestamp and connection-id terms (spec.md §4.4).
func (s *Signer) Canonical(method, path string, params []Param, timestamp time.Time) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteString(path)
	b.WriteString(CanonicalQuery(params))
	b.WriteString(HeaderTimestamp)
	b.WriteString(timestamp.UTC().Format(TimestampLayout))
	b.WriteString(HeaderConnectionID)
	b.WriteString(strconv.FormatUint(s.ConnectionID, 10))
	return b.String()
}

// Sign computes the base64 HMAC-SHA256 signature over the canonical string.
func (s *Signer) Sign(method, path string, params []Param, timestamp time.Time) (string, error) {
	mac := hmac.New(sha256.New, []byte(s.AuthToken))
	if _, err := mac.Write([]byte(s.Canonical(method, path, params, timestamp))); err != nil {
		return "", &AuthError{Kind: SigningFailed, Context: err.Error()}
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Headers builds the three BTNL-* headers for a signed request.
func (s *Signer) Headers(method, path string, params []Param, timestamp time.Time) (map[string]string, error) {
	sig, err := s.Sign(method, path, params, timestamp)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		HeaderConnectionID: strconv.FormatUint(s.ConnectionID, 10),
		HeaderTimestamp:    timestamp.UTC().Format(TimestampLayout),
		HeaderSignature:    sig,
	}, nil
}

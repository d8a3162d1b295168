// Package mailcheck validates email addresses through four independent
// checks: syntax regex, MX lookup, disposable-provider blocklist, and a
// comprehensive RFC-grammar check delegated to a library.
//
// Usage:
//
//	v := mailcheck.New(mailcheck.Config{})
//	res := v.Validate(ctx, "user@example.com")
//	fmt.Println(res.Valid, res.Errors)
package mailcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	emailverifier "github.com/AfterShip/email-verifier"
)

// emailPattern is deliberately conservative: restricted local-part
// characters, exactly one @, dotted domain, no whitespace.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// mxLookuper abstracts the DNS resolver for testability.
type mxLookuper interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Validator runs email checks. Safe for concurrent use; all state is
// read-only after New.
type Validator struct {
	cfg        Config
	logger     *slog.Logger
	resolver   mxLookuper
	verify     func(email string) (bool, string)
	disposable map[string]struct{}
}

// Config configures a Validator.
type Config struct {
	// DNSTimeout bounds each MX lookup (default: 5s). Lookups must stay
	// finite — an unbounded DNS call would block the request.
	DNSTimeout time.Duration `json:"dns_timeout" yaml:"dns_timeout"`

	// ExtraDisposable extends the bundled disposable-domain set.
	ExtraDisposable []string `json:"extra_disposable" yaml:"extra_disposable"`

	// Logger for per-validation messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.DNSTimeout <= 0 {
		c.DNSTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates a Validator with the given configuration.
func New(cfg Config) *Validator {
	cfg.defaults()
	return &Validator{
		cfg:        cfg,
		logger:     cfg.Logger,
		resolver:   net.DefaultResolver,
		verify:     libraryVerify(emailverifier.NewVerifier()),
		disposable: disposableSet(cfg.ExtraDisposable),
	}
}

// libraryVerify wraps the RFC validation library into the verify contract.
func libraryVerify(v *emailverifier.Verifier) func(string) (bool, string) {
	return func(email string) (bool, string) {
		ret, err := v.Verify(email)
		if err != nil {
			return false, err.Error()
		}
		if !ret.Syntax.Valid {
			return false, "address does not satisfy RFC syntax"
		}
		return true, ""
	}
}

// CheckFormat reports whether the address matches the conservative
// syntax pattern.
func (v *Validator) CheckFormat(email string) bool {
	return emailPattern.MatchString(email)
}

// CheckDomain reports whether the address's domain has at least one MX
// record. Every DNS failure (NXDOMAIN, timeout, SERVFAIL) is a negative
// result, never an error.
func (v *Validator) CheckDomain(ctx context.Context, email string) bool {
	domain, ok := domainOf(email)
	if !ok {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, v.cfg.DNSTimeout)
	defer cancel()

	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil {
		v.logger.Debug("mx lookup failed", "domain", domain, "error", err)
		return false
	}
	return len(records) > 0
}

// CheckDisposable reports whether the domain belongs to a known
// disposable-inbox provider. Matching is case-insensitive.
func (v *Validator) CheckDisposable(email string) bool {
	domain, ok := domainOf(email)
	if !ok {
		return false
	}
	_, found := v.disposable[strings.ToLower(domain)]
	return found
}

// CheckComprehensive delegates to the RFC validation library. A library
// failure is downgraded to (false, message) and never propagated.
func (v *Validator) CheckComprehensive(email string) (bool, string) {
	return v.verify(email)
}

// Validate runs all four checks against the address and aggregates them.
// Each boolean is computed independently so the report stays meaningful
// even when the syntax check already failed.
func (v *Validator) Validate(ctx context.Context, email string) *Result {
	res := &Result{Email: email, Errors: []string{}}

	res.Checks.FormatValid = v.CheckFormat(email)
	if !res.Checks.FormatValid {
		res.Errors = append(res.Errors, "Invalid email format")
	}

	res.Checks.DomainExists = v.CheckDomain(ctx, email)
	if !res.Checks.DomainExists {
		res.Errors = append(res.Errors, "Domain does not exist or has no MX record")
	}

	res.Checks.IsDisposable = v.CheckDisposable(email)
	if res.Checks.IsDisposable {
		res.Errors = append(res.Errors, "Disposable email addresses are not allowed")
	}

	ok, detail := v.CheckComprehensive(email)
	res.Checks.ComprehensiveValid = ok
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("Comprehensive validation failed: %s", detail))
	}

	res.Valid = res.Checks.FormatValid &&
		res.Checks.DomainExists &&
		!res.Checks.IsDisposable &&
		res.Checks.ComprehensiveValid

	v.logger.Info("email validation", "email", email, "valid", res.Valid)
	return res
}

// domainOf returns the part between the first and second @, mirroring the
// domain split used by every check.
func domainOf(email string) (string, bool) {
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

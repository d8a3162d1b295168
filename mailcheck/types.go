package mailcheck

// Checks holds the outcome of each individual validation step.
type Checks struct {
	FormatValid        bool `json:"format_valid"`
	DomainExists       bool `json:"domain_exists"`
	IsDisposable       bool `json:"is_disposable"`
	ComprehensiveValid bool `json:"comprehensive_valid"`
}

// Result is the aggregate outcome of validating one address. It is built
// once per request and not mutated afterwards.
type Result struct {
	Email  string   `json:"email"`
	Valid  bool     `json:"valid"`
	Checks Checks   `json:"checks"`
	Errors []string `json:"errors"`
}

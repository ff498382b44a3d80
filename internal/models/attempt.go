package models

// Attempt outcomes recorded by the fallback orchestrator.
const (
	AttemptSuccess           = "success"
	AttemptMissingCredential = "missing_credential"
	AttemptRetriesExhausted  = "retries_exhausted"
	AttemptFailed            = "failed"
)

// SourceAttempt records one adapter invocation made while answering a tool
// call. The ordered attempt list is part of the result, not optional logging:
// callers use it to tell which source actually answered and why.
type SourceAttempt struct {
	Adapter string `json:"adapter"`
	Outcome string `json:"outcome"`
	Warning string `json:"warning,omitempty"`
}

// FilingsResult is the final answer for a filings lookup, including the
// provenance of how it was obtained.
type FilingsResult struct {
	Source   string          `json:"source"` // adapter that produced Items
	Items    []Filing        `json:"items,omitempty"`
	News     []NewsItem      `json:"news,omitempty"` // populated when degraded to news search
	Attempts []SourceAttempt `json:"attempts"`
	Warnings []string        `json:"warnings,omitempty"`
}

// MacroPresetResult is the aggregate of a composite macro request. Partial
// results are valid: each source carries its own status.
type MacroPresetResult struct {
	Preset  string              `json:"preset"`
	Series  []*MacroSeries      `json:"series,omitempty"`
	Charts  []*ChartSeries      `json:"charts,omitempty"`
	Sources []MacroSourceStatus `json:"sources"`
}

// MacroSourceStatus annotates one sub-request of a macro preset.
type MacroSourceStatus struct {
	Source string `json:"source"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

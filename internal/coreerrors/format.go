package coreerrors

import (
	"encoding/json"
)

// Record is the JSON representation of an error, used by the Request
// Dispatcher (spec §7) to report failures as structured per-request records
// (kind + message) instead of terminating the dispatcher.
type Record struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	Recoverable bool             `json:"recoverable"`
}

// ToRecord converts any error into a structured Record, wrapping non-CoreError
// values as ErrCodeInternal.
func ToRecord(err error) *Record {
	if err == nil {
		return nil
	}

	ce, ok := err.(*CoreError)
	if !ok {
		ce = Wrap(ErrCodeInternal, err)
	}

	r := &Record{
		Code:        ce.Code,
		Message:     ce.Message,
		Category:    string(ce.Category),
		Severity:    string(ce.Severity),
		Details:     ce.Details,
		Suggestion:  ce.Suggestion,
		Recoverable: ce.Recoverable,
	}
	if ce.Cause != nil {
		r.Cause = ce.Cause.Error()
	}
	return r
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(ToRecord(err))
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	ce, ok := err.(*CoreError)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code":  ce.Code,
		"message":     ce.Message,
		"category":    string(ce.Category),
		"severity":    string(ce.Severity),
		"recoverable": ce.Recoverable,
	}

	if ce.Cause != nil {
		result["cause"] = ce.Cause.Error()
	}
	if ce.Suggestion != "" {
		result["suggestion"] = ce.Suggestion
	}
	for k, v := range ce.Details {
		result["detail_"+k] = v
	}

	return result
}

package mentor

import "github.com/ncecere/mymentor/provider"

// CallSettings groups sampling parameters applied to every completion
// request an Asker sends. They are fixed at startup.
type CallSettings struct {
	// Temperature controls randomness of the output.
	Temperature *float64
	// TopP controls nucleus sampling for the output.
	TopP *float64
	// MaxTokens limits the number of tokens produced.
	MaxTokens *int
	// Stop contains stop sequences that will truncate the output.
	Stop []string
}

// ApplyTo copies the non-nil/non-zero fields from the CallSettings
// into req. A nil receiver leaves req untouched.
func (s *CallSettings) ApplyTo(req *provider.LanguageModelRequest) {
	if s == nil {
		return
	}
	if s.Temperature != nil {
		req.Temperature = s.Temperature
	}
	if s.TopP != nil {
		req.TopP = s.TopP
	}
	if s.MaxTokens != nil {
		req.MaxTokens = s.MaxTokens
	}
	if len(s.Stop) > 0 {
		req.Stop = s.Stop
	}
}

// IsZero reports whether no setting is present.
func (s *CallSettings) IsZero() bool {
	return s == nil || (s.Temperature == nil && s.TopP == nil && s.MaxTokens == nil && len(s.Stop) == 0)
}

package agent

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire function names offered to the model.
const (
	toolStartQuote    = "start_quote"
	toolFindFeatures  = "find_features"
	toolAddFeature    = "add_feature"
	toolGetQuote      = "get_quote"
	toolFinalizeQuote = "finalize_quote"
)

// ErrUnknownFunction marks a tool call whose name is outside the closed
// set. It is fed back to the model as a structured error result so the
// conversation can recover.
var ErrUnknownFunction = errors.New("unknown function")

// Call is the closed set of operations the model may invoke. Decoding
// happens once, here; dispatch matches the variants exhaustively.
type Call interface {
	callName() string
}

// StartQuote opens a new quote for a service type.
type StartQuote struct {
	ServiceType string `json:"serviceType"`
}

// FindFeatures searches the catalog for features matching a client goal.
// ServiceType is optional when a quote is already active.
type FindFeatures struct {
	Query       string `json:"query"`
	ServiceType string `json:"serviceType,omitempty"`
}

// AddFeature adds a catalog feature to the active quote.
type AddFeature struct {
	FeatureID string `json:"featureId"`
}

// GetQuote returns the active quote's breakdown.
type GetQuote struct{}

// FinalizeQuote submits the active quote as a CRM quote request.
type FinalizeQuote struct {
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (StartQuote) callName() string    { return toolStartQuote }
func (FindFeatures) callName() string  { return toolFindFeatures }
func (AddFeature) callName() string    { return toolAddFeature }
func (GetQuote) callName() string      { return toolGetQuote }
func (FinalizeQuote) callName() string { return toolFinalizeQuote }

// decodeCall parses one tool call into its typed variant. An unknown
// function name returns ErrUnknownFunction; malformed arguments for a
// known function are an input-contract violation.
func decodeCall(name, arguments string) (Call, error) {
	raw := []byte(arguments)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	switch name {
	case toolStartQuote:
		var c StartQuote
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s arguments: %w", name, err)
		}
		return c, nil
	case toolFindFeatures:
		var c FindFeatures
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s arguments: %w", name, err)
		}
		return c, nil
	case toolAddFeature:
		var c AddFeature
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s arguments: %w", name, err)
		}
		return c, nil
	case toolGetQuote:
		return GetQuote{}, nil
	case toolFinalizeQuote:
		var c FinalizeQuote
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s arguments: %w", name, err)
		}
		return c, nil
	default:
		return nil, ErrUnknownFunction
	}
}

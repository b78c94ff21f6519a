// Package smartimport picks the lead ingestion flow to open when a user
// clicks "Import leads".
package smartimport

import (
	"fmt"
	"strings"
)

// DecisionType is the flow the dashboard should open.
type DecisionType string

const (
	DecisionCRM    DecisionType = "crm"
	DecisionSelect DecisionType = "select"
	DecisionUpload DecisionType = "upload"
)

// defaultCRMLabel is shown when the connected CRM has no display name.
const defaultCRMLabel = "CRM"

// Input is the connection state the decision depends on.
type Input struct {
	HasConnectedCRM bool   `json:"hasConnectedCrm"`
	HasLeadLists    bool   `json:"hasLeadLists"`
	CRMDisplayLabel string `json:"crmDisplayLabel"`
}

// Decision is the chosen flow plus the toast copy announcing it.
type Decision struct {
	Type        DecisionType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
}

// Decide returns the import flow for in. A connected CRM wins over existing
// lead lists, which win over a first-time upload.
func Decide(in Input) Decision {
	switch {
	case in.HasConnectedCRM:
		label := strings.TrimSpace(in.CRMDisplayLabel)
		if label == "" {
			label = defaultCRMLabel
		}
		return Decision{
			Type:        DecisionCRM,
			Title:       "Connected CRM detected",
			Description: fmt.Sprintf("Review your %s mapping before importing.", label),
		}
	case in.HasLeadLists:
		return Decision{
			Type:        DecisionSelect,
			Title:       "Opening lead list selector...",
			Description: "Select from your existing lists or upload a new one",
		}
	default:
		return Decision{
			Type:        DecisionUpload,
			Title:       "Upload your first lead list",
			Description: "Import leads from CSV to get started",
		}
	}
}

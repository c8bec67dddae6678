package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Workflow statuses for a permitting project. The empty string is a valid
// state ("Draft"), not a missing value; callers that want a label should use
// caller-side rendering, never normalize it away.
const (
	StatusDraft         = ""
	StatusNew           = "New"
	StatusPendingReview = "Pending Review"
	StatusProcessing    = "Processing"
	StatusManual        = "Manual Processing"
	StatusApproved      = "Approved for Generation"
	StatusComplete      = "Complete"
)

// DateReceivedLayout is the en-GB day/month/year format the intake pipeline
// has always used for the dateReceived field.
const DateReceivedLayout = "02/01/2006"

// Project is one construction-permitting request as it travels through
// intake, review, approval and document generation. Field names on the wire
// are fixed; the front end and the generation tooling both bind to them.
type Project struct {
	ID             string `json:"id"`
	ProjectName    string `json:"projectName"`
	Email          string `json:"email,omitempty"`
	Status         string `json:"status"`
	IsIndustrial   bool   `json:"isIndustrial,omitempty"`
	PlansUploaded  bool   `json:"plansUploaded,omitempty"`
	DateReceived   string `json:"dateReceived,omitempty"`
	DueDate        string `json:"dueDate,omitempty"`
	SpecialReqs    string `json:"specialRequirements,omitempty"`

	// Site and environmental data gathered during review.
	Latitude                string   `json:"latitude,omitempty"`
	Longitude               string   `json:"longitude,omitempty"`
	SoilData                string   `json:"soilData,omitempty"`
	EndangeredSpecies       string   `json:"endangeredSpecies,omitempty"`
	Waterway                string   `json:"waterway,omitempty"`
	WaterbodyImpaired       bool     `json:"waterbodyImpaired,omitempty"`
	LandDisturbanceArea     float64  `json:"landDisturbanceArea,omitempty"`
	County                  string   `json:"county,omitempty"`
	TCEQSegment             string   `json:"tceqSegment,omitempty"`
	MS4Operator             string   `json:"ms4Operator,omitempty"`
	NOIType                 string   `json:"noiType,omitempty"`
	BestManagementPractices []string `json:"bestManagementPractices,omitempty"`

	// Narrative fields filled in by the reviewer.
	ProjectAddress     string `json:"projectAddress,omitempty"`
	ProjectStartDate   string `json:"projectStartDate,omitempty"`
	ProjectFinishDate  string `json:"projectFinishDate,omitempty"`
	ProjectDescription string `json:"projectDescription,omitempty"`
	SequenceActivities string `json:"sequenceActivities,omitempty"`

	InvoiceTotal float64 `json:"invoiceTotal,omitempty"`

	// External references; opaque to this service.
	TrelloLink   string `json:"trelloLink,omitempty"`
	JobOrderLink string `json:"jobOrderLink,omitempty"`
	FolderLink   string `json:"folderLink,omitempty"`
	InvoiceLink  string `json:"invoiceLink,omitempty"`

	// Set while the project sits in the archive, absent otherwise.
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ValidStatus reports whether s is one of the enumerated workflow states.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusNew, StatusPendingReview, StatusProcessing,
		StatusManual, StatusApproved, StatusComplete:
		return true
	}
	return false
}

// Clone returns a deep copy so callers never share slices or the deletedAt
// pointer with stored state.
func (p Project) Clone() Project {
	out := p
	if p.BestManagementPractices != nil {
		out.BestManagementPractices = append([]string(nil), p.BestManagementPractices...)
	}
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		out.DeletedAt = &t
	}
	return out
}

// Merge applies a shallow field merge onto p, mirroring a JSON object spread:
// each supplied key replaces the prior value, unspecified keys are untouched.
// Unknown keys are ignored; a type mismatch fails the whole merge and leaves
// p unchanged.
func (p *Project) Merge(fields map[string]any) error {
	base, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	doc := map[string]any{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return fmt.Errorf("unmarshal project: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal merged project: %w", err)
	}

	var next Project
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	*p = next
	return nil
}

// FromFields builds a fresh record from a raw field map, with the same type
// checking as Merge.
func FromFields(fields map[string]any) (Project, error) {
	var p Project
	if err := p.Merge(fields); err != nil {
		return Project{}, err
	}
	return p, nil
}

// SortActive orders records by dateReceived descending. Records whose date
// does not parse sort last; ties keep their existing order.
func SortActive(list []Project) {
	sort.SliceStable(list, func(i, j int) bool {
		return parseDateReceived(list[i].DateReceived).After(parseDateReceived(list[j].DateReceived))
	})
}

// SortArchived orders records by deletedAt descending.
func SortArchived(list []Project) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if list[i].DeletedAt != nil {
			ti = *list[i].DeletedAt
		}
		if list[j].DeletedAt != nil {
			tj = *list[j].DeletedAt
		}
		return ti.After(tj)
	})
}

func parseDateReceived(s string) time.Time {
	t, err := time.Parse(DateReceivedLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

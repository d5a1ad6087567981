// Package verification runs the lookup pipeline against the HR backend —
// authenticate, resolve the email to SSO identities, annotate each identity
// with employment detail, pick one canonical record — and shapes the wire
// response.
package verification

import (
	"sort"

	"github.com/brightpath-hr/employment-verification-api/pkg/ultipro"
)

// ActiveStatus is the backend's literal sentinel for an active employee.
const ActiveStatus = "A"

// Candidate is one resolved identity, tagged with its resolution-order
// index. Detail is nil when employment could not be determined for it; an
// unknown status is never treated as active.
type Candidate struct {
	Index         int
	Record        ultipro.IdentityRecord
	Detail        map[string]string
	RawEmployment string
}

// Active reports whether the candidate's employment detail carries the
// active sentinel.
func (c Candidate) Active() bool {
	return c.Detail != nil && c.Detail["employmentStatus"] == ActiveStatus
}

type OutcomeKind int

const (
	// NotFound: the email resolved to zero identities.
	NotFound OutcomeKind = iota
	// NoActiveRecord: candidates existed but none was active.
	NoActiveRecord
	// Found: one canonical active record was selected.
	Found
)

// CanonicalRecord is the identity selected as authoritative, with its
// employment detail. Detail may be nil only on the defensive path where a
// caller constructs one by hand; Reconcile never selects a detail-less
// candidate.
type CanonicalRecord struct {
	Record ultipro.IdentityRecord
	Detail map[string]string
}

// CandidateSummary is the per-candidate line in the reconciliation report.
type CandidateSummary struct {
	EmployeeNumber   string `json:"employeeNumber"`
	CompanyCode      string `json:"companyCode"`
	Status           string `json:"status"`
	EmploymentStatus string `json:"employmentStatus,omitempty"`
	Active           bool   `json:"active"`
}

// ReconciliationReport is the immutable bookkeeping produced alongside the
// outcome: how many candidates existed, how many were active, and one
// summary per candidate in resolution order.
type ReconciliationReport struct {
	TotalCandidates  int                `json:"totalRecords"`
	ActiveCandidates int                `json:"activeRecords"`
	Candidates       []CandidateSummary `json:"candidates"`
}

type Outcome struct {
	Kind      OutcomeKind
	Canonical *CanonicalRecord
	Report    ReconciliationReport
}

// Reconcile applies the active-record selection policy:
//
//  1. zero candidates → NotFound
//  2. no active candidate → NoActiveRecord with the candidate count
//  3. otherwise the LAST active candidate in resolution order wins
//
// Candidates are ordered by their resolution index before anything else, so
// the result does not depend on the completion order of concurrent
// employment lookups. The last-in-order tie-break is the backend's
// long-standing policy, preserved literally.
func Reconcile(candidates []Candidate) Outcome {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	if len(ordered) == 0 {
		return Outcome{Kind: NotFound}
	}

	report := ReconciliationReport{
		TotalCandidates: len(ordered),
		Candidates:      make([]CandidateSummary, 0, len(ordered)),
	}

	var lastActive *Candidate
	for i := range ordered {
		c := ordered[i]

		active := c.Active()
		if active {
			report.ActiveCandidates++
			lastActive = &ordered[i]
		}

		summary := CandidateSummary{
			EmployeeNumber: c.Record.EmployeeNumber,
			CompanyCode:    c.Record.CompanyCode,
			Status:         c.Record.Status,
			Active:         active,
		}
		if c.Detail != nil {
			summary.EmploymentStatus = c.Detail["employmentStatus"]
		}
		report.Candidates = append(report.Candidates, summary)
	}

	if lastActive == nil {
		return Outcome{Kind: NoActiveRecord, Report: report}
	}

	return Outcome{
		Kind: Found,
		Canonical: &CanonicalRecord{
			Record: lastActive.Record,
			Detail: lastActive.Detail,
		},
		Report: report,
	}
}

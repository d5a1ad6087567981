package verification

import "net/http"

const (
	// EmploymentStatusActive is reported when the canonical record carried
	// employment detail.
	EmploymentStatusActive = "ACTIVE"
	// EmploymentStatusAssumed is reported on the defensive path where a
	// canonical record has no employment detail at all.
	EmploymentStatusAssumed = "ASSUMED_ACTIVE"

	errNoActiveRecords = "No active employee records found"
	errUserNotFound    = "User not found"
)

// Response is the wire shape of one lookup answer.
type Response struct {
	Success          bool          `json:"success"`
	Email            string        `json:"email,omitempty"`
	EmployeeNumber   string        `json:"employeeNumber,omitempty"`
	CompanyCode      string        `json:"companyCode,omitempty"`
	FirstName        string        `json:"firstName,omitempty"`
	LastName         string        `json:"lastName,omitempty"`
	Status           string        `json:"status,omitempty"`
	EmploymentStatus string        `json:"employmentStatus,omitempty"`
	Error            string        `json:"error,omitempty"`
	TotalRecords     int           `json:"totalRecords,omitempty"`
	Debug            *DebugPayload `json:"debug,omitempty"`
}

// DebugPayload is the verbose-only projection: raw upstream payloads and the
// full candidate breakdown. It adds fields; it never changes the success or
// status-code semantics of the response it rides on.
type DebugPayload struct {
	ReconciliationReport
	RawIdentityResponse    string   `json:"rawIdentityResponse,omitempty"`
	RawEmploymentResponses []string `json:"rawEmploymentResponses,omitempty"`
}

// BuildResponse maps a pipeline result to the response body and HTTP status.
func BuildResponse(result Result, email string, verbose bool) (Response, int) {
	var resp Response
	var status int

	switch result.Outcome.Kind {
	case Found:
		canonical := result.Outcome.Canonical

		employmentStatus := EmploymentStatusAssumed
		if canonical.Detail != nil {
			employmentStatus = EmploymentStatusActive
		}

		resp = Response{
			Success:          true,
			Email:            email,
			EmployeeNumber:   canonical.Record.EmployeeNumber,
			CompanyCode:      canonical.Record.CompanyCode,
			FirstName:        canonical.Record.FirstName,
			LastName:         canonical.Record.LastName,
			Status:           canonical.Record.Status,
			EmploymentStatus: employmentStatus,
		}
		status = http.StatusOK

	case NoActiveRecord:
		resp = Response{
			Success:      false,
			Email:        email,
			Error:        errNoActiveRecords,
			TotalRecords: result.Outcome.Report.TotalCandidates,
		}
		status = http.StatusNotFound

	default:
		resp = Response{
			Success: false,
			Email:   email,
			Error:   errUserNotFound,
		}
		status = http.StatusNotFound
	}

	if verbose {
		resp.Debug = buildDebug(result)
	}

	return resp, status
}

func buildDebug(result Result) *DebugPayload {
	debug := &DebugPayload{
		ReconciliationReport: result.Outcome.Report,
		RawIdentityResponse:  result.RawIdentity,
	}

	for _, candidate := range result.Candidates {
		if candidate.RawEmployment != "" {
			debug.RawEmploymentResponses = append(debug.RawEmploymentResponses, candidate.RawEmployment)
		}
	}

	return debug
}

package ultipro

import (
	"errors"
	"fmt"
)

// IdentityRecord is one SSO credential entry mapping an email to an
// employee. (CompanyCode, EmployeeNumber) is the unique identifier.
type IdentityRecord struct {
	EmployeeNumber  string `json:"employeeNumber"`
	CompanyCode     string `json:"companyCode"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Status          string `json:"status"`
	ClientUserName  string `json:"clientUserName"`
	UltiProUserName string `json:"ultiProUserName"`
}

// StatusUnknown marks an identity record whose backend response carried no
// status field. Unknown is never treated as active.
const StatusUnknown = "UNKNOWN"

// IdentityLookup is the outcome of one email resolution call. Records keeps
// the backend's document order; Raw holds the full upstream response body
// for verbose projections.
type IdentityLookup struct {
	Records []IdentityRecord
	Raw     string
}

// EmploymentLookup is the outcome of one employment-information call.
// Detail is nil when the backend had no record for the identifier; absence
// is not an error.
type EmploymentLookup struct {
	Detail map[string]string
	Raw    string
}

// ErrAuthFailed is terminal for the whole request; the caller surfaces it
// as 401.
var ErrAuthFailed = errors.New("backend authentication failed")

// TransportError means the SOAP call never completed at the HTTP level.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("soap transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError means the backend answered with a failing HTTP status. Whether
// that is terminal is the caller's decision: it is for authentication, and a
// "no result" signal for identity and employment lookups.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("soap call failed: status=%d body=%s", e.StatusCode, snippet(e.Body, maxErrBodyBytes))
}

const maxErrBodyBytes = 800

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

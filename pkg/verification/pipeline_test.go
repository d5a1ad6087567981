package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/brightpath-hr/employment-verification-api/pkg/core"
	"github.com/brightpath-hr/employment-verification-api/pkg/ultipro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend scripts the upstream: per-identifier employment details plus
// optional injected failures.
type fakeBackend struct {
	mu sync.Mutex

	authErr   error
	token     string
	exact     ultipro.IdentityLookup
	exactErr  error
	search    ultipro.IdentityLookup
	searchErr error

	employment    map[string]ultipro.EmploymentLookup
	employmentErr map[string]error

	exactCalls      int
	searchCalls     int
	employmentCalls []string
}

func (f *fakeBackend) Authenticate(ctx context.Context) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	if f.token == "" {
		return "tok", nil
	}
	return f.token, nil
}

func (f *fakeBackend) GetSsoUserByUserName(ctx context.Context, token, email string) (ultipro.IdentityLookup, error) {
	f.mu.Lock()
	f.exactCalls++
	f.mu.Unlock()
	return f.exact, f.exactErr
}

func (f *fakeBackend) FindSsoUsers(ctx context.Context, token, email string) (ultipro.IdentityLookup, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.search, f.searchErr
}

func (f *fakeBackend) GetEmploymentInformation(ctx context.Context, token, companyCode, employeeNumber string) (ultipro.EmploymentLookup, error) {
	key := companyCode + "/" + employeeNumber

	f.mu.Lock()
	f.employmentCalls = append(f.employmentCalls, key)
	f.mu.Unlock()

	if err, ok := f.employmentErr[key]; ok {
		return ultipro.EmploymentLookup{}, err
	}
	return f.employment[key], nil
}

func record(companyCode, employeeNumber string) ultipro.IdentityRecord {
	return ultipro.IdentityRecord{
		CompanyCode:    companyCode,
		EmployeeNumber: employeeNumber,
		FirstName:      "John",
		LastName:       "Doe",
		Status:         "Active",
	}
}

func activeEmployment() ultipro.EmploymentLookup {
	return ultipro.EmploymentLookup{
		Detail: map[string]string{"employmentStatus": "A"},
		Raw:    "<EmploymentStatus>A</EmploymentStatus>",
	}
}

func terminatedEmployment() ultipro.EmploymentLookup {
	return ultipro.EmploymentLookup{
		Detail: map[string]string{"employmentStatus": "T"},
		Raw:    "<EmploymentStatus>T</EmploymentStatus>",
	}
}

func TestVerify_SingleActiveIdentity(t *testing.T) {
	backend := &fakeBackend{
		exact: ultipro.IdentityLookup{
			Records: []ultipro.IdentityRecord{record("BPML", "100624")},
			Raw:     "<sso/>",
		},
		employment: map[string]ultipro.EmploymentLookup{
			"BPML/100624": activeEmployment(),
		},
	}

	svc := New(backend, &core.BackendConfig{LookupStrategy: "exact"}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome.Kind)
	assert.Equal(t, "100624", result.Outcome.Canonical.Record.EmployeeNumber)
	assert.Equal(t, "BPML", result.Outcome.Canonical.Record.CompanyCode)
	assert.Equal(t, 1, backend.exactCalls)
	assert.Equal(t, 0, backend.searchCalls)
	assert.Equal(t, "<sso/>", result.RawIdentity)
}

func TestVerify_SearchStrategySelectedByConfig(t *testing.T) {
	backend := &fakeBackend{
		search: ultipro.IdentityLookup{
			Records: []ultipro.IdentityRecord{record("BPML", "100624")},
		},
		employment: map[string]ultipro.EmploymentLookup{
			"BPML/100624": activeEmployment(),
		},
	}

	svc := New(backend, &core.BackendConfig{LookupStrategy: "search"}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err)

	assert.Equal(t, Found, result.Outcome.Kind)
	assert.Equal(t, 1, backend.searchCalls)
	assert.Equal(t, 0, backend.exactCalls)
}

func TestVerify_AuthFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{
		authErr: fmt.Errorf("%w: bad credentials", ultipro.ErrAuthFailed),
	}

	svc := New(backend, &core.BackendConfig{}, Options{})

	_, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.Error(t, err)
	require.ErrorIs(t, err, ultipro.ErrAuthFailed)
	assert.Equal(t, 0, backend.exactCalls, "no lookup after failed auth")
}

func TestVerify_IdentityLookupFailureDegradesToNotFound(t *testing.T) {
	backend := &fakeBackend{
		exactErr: &ultipro.RemoteError{StatusCode: 500, Body: "fault"},
	}

	svc := New(backend, &core.BackendConfig{}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err, "resolver failure is not a request failure")
	assert.Equal(t, NotFound, result.Outcome.Kind)
}

func TestVerify_EmploymentFailureDegradesToUnknownForThatCandidateOnly(t *testing.T) {
	backend := &fakeBackend{
		search: ultipro.IdentityLookup{
			Records: []ultipro.IdentityRecord{
				record("BPML", "1"),
				record("ACME", "2"),
			},
		},
		employment: map[string]ultipro.EmploymentLookup{
			"ACME/2": activeEmployment(),
		},
		employmentErr: map[string]error{
			"BPML/1": &ultipro.TransportError{Err: errors.New("dial timeout")},
		},
	}

	svc := New(backend, &core.BackendConfig{LookupStrategy: "search"}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome.Kind)
	assert.Equal(t, "2", result.Outcome.Canonical.Record.EmployeeNumber)
	assert.Len(t, backend.employmentCalls, 2, "sibling lookups still run")
	assert.Nil(t, result.Candidates[0].Detail, "failed candidate stays status-unknown")
}

func TestVerify_MultipleActiveLastWins(t *testing.T) {
	backend := &fakeBackend{
		search: ultipro.IdentityLookup{
			Records: []ultipro.IdentityRecord{
				record("BPML", "1"),
				record("ACME", "2"),
				record("ZZZ", "3"),
			},
		},
		employment: map[string]ultipro.EmploymentLookup{
			"BPML/1": activeEmployment(),
			"ACME/2": activeEmployment(),
			"ZZZ/3":  terminatedEmployment(),
		},
	}

	svc := New(backend, &core.BackendConfig{LookupStrategy: "search"}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err)

	require.Equal(t, Found, result.Outcome.Kind)
	assert.Equal(t, "2", result.Outcome.Canonical.Record.EmployeeNumber)
	assert.Equal(t, 2, result.Outcome.Report.ActiveCandidates)
	assert.Equal(t, 3, result.Outcome.Report.TotalCandidates)
}

func TestVerify_AllTerminated(t *testing.T) {
	backend := &fakeBackend{
		search: ultipro.IdentityLookup{
			Records: []ultipro.IdentityRecord{
				record("BPML", "1"),
				record("ACME", "2"),
			},
		},
		employment: map[string]ultipro.EmploymentLookup{
			"BPML/1": terminatedEmployment(),
			"ACME/2": terminatedEmployment(),
		},
	}

	svc := New(backend, &core.BackendConfig{LookupStrategy: "search"}, Options{})

	result, err := svc.Verify(context.Background(), "john.doe@example.com")
	require.NoError(t, err)

	assert.Equal(t, NoActiveRecord, result.Outcome.Kind)
	assert.Equal(t, 2, result.Outcome.Report.TotalCandidates)
}

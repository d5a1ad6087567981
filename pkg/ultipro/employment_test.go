package ultipro

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmploymentInformation_ExtractsKnownFields(t *testing.T) {
	resp := `<GetEmploymentInformationByEmployeeIdentifierResponse>
		<Success>true</Success>
		<Results>
			<EmploymentInformation>
				<EmploymentStatus>A</EmploymentStatus>
				<HireDate>2019-04-01</HireDate>
				<JobTitle>Field Engineer</JobTitle>
				<IsActive>true</IsActive>
				<CompanyCode>BPML</CompanyCode>
				<EmployeeNumber>100624</EmployeeNumber>
			</EmploymentInformation>
		</Results>
	</GetEmploymentInformationByEmployeeIdentifierResponse>`

	ft := &fakeTransport{resp: okResponse(resp)}
	svc := newTestService(t, ft)

	lookup, err := svc.GetEmploymentInformation(context.Background(), "tok", "BPML", "100624")
	require.NoError(t, err)

	require.NotNil(t, lookup.Detail)
	assert.Equal(t, "A", lookup.Detail["employmentStatus"])
	assert.Equal(t, "2019-04-01", lookup.Detail["hireDate"])
	assert.Equal(t, "Field Engineer", lookup.Detail["jobTitle"])
	assert.Equal(t, "true", lookup.Detail["isActive"])
	assert.NotContains(t, lookup.Detail, "terminationDate", "absent fields stay absent")
	assert.Equal(t, resp, lookup.Raw)

	// Typed identifier in the request body.
	assert.Contains(t, ft.body, `i:type="EmployeeNumberIdentifier"`)
	assert.Contains(t, ft.body, ">BPML</CompanyCode>")
	assert.Contains(t, ft.body, ">100624</EmployeeNumber>")
}

func TestGetEmploymentInformation_StatusFallbackToWholeResponse(t *testing.T) {
	resp := `<Response>
		<Success>true</Success>
		<Results>
			<EmploymentInformation>
				<HireDate>2015-09-14</HireDate>
			</EmploymentInformation>
		</Results>
		<EmploymentStatus>T</EmploymentStatus>
	</Response>`

	ft := &fakeTransport{resp: okResponse(resp)}
	svc := newTestService(t, ft)

	lookup, err := svc.GetEmploymentInformation(context.Background(), "tok", "BPML", "100624")
	require.NoError(t, err)

	require.NotNil(t, lookup.Detail)
	assert.Equal(t, "T", lookup.Detail["employmentStatus"])
}

func TestGetEmploymentInformation_SuccessFalseIsAbsent(t *testing.T) {
	resp := `<Response><Success>false</Success></Response>`

	ft := &fakeTransport{resp: okResponse(resp)}
	svc := newTestService(t, ft)

	lookup, err := svc.GetEmploymentInformation(context.Background(), "tok", "BPML", "100624")
	require.NoError(t, err)
	assert.Nil(t, lookup.Detail)
	assert.NotEmpty(t, lookup.Raw)
}

func TestGetEmploymentInformation_NoResultsBlockIsAbsent(t *testing.T) {
	resp := `<Response><Success>true</Success></Response>`

	ft := &fakeTransport{resp: okResponse(resp)}
	svc := newTestService(t, ft)

	lookup, err := svc.GetEmploymentInformation(context.Background(), "tok", "BPML", "100624")
	require.NoError(t, err)
	assert.Nil(t, lookup.Detail)
}

func TestGetEmploymentInformation_TransportFailureIsError(t *testing.T) {
	ft := &fakeTransport{err: errors.New("dial timeout")}
	svc := newTestService(t, ft)

	_, err := svc.GetEmploymentInformation(context.Background(), "tok", "BPML", "100624")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
}

package ultipro

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brightpath-hr/employment-verification-api/pkg/soapxml"
)

// Every field the employment-information result is known to carry. Each is
// individually optional; only fields the backend actually returned end up in
// the detail map.
var knownEmploymentFields = []string{
	"employmentStatus",
	"hireDate",
	"originalHireDate",
	"startDate",
	"terminationDate",
	"jobTitle",
	"department",
	"employmentType",
	"isActive",
	"employeeNumber",
	"companyCode",
}

// GetEmploymentInformation fetches employment status/detail for one identity
// record by its typed employee identifier. A false success flag or a missing
// result block yields an empty lookup, not an error; only transport or HTTP
// failure is an error, and callers treat that as "employment unknown for
// this record" rather than aborting the request.
func (s *service) GetEmploymentInformation(ctx context.Context, token, companyCode, employeeNumber string) (EmploymentLookup, error) {
	body := Element{
		Name:  "GetEmploymentInformationByEmployeeIdentifier",
		Attrs: []Attr{{Name: "xmlns", Value: coreNS}},
		Children: []Element{
			{
				Name:  "employeeIdentifier",
				Attrs: []Attr{{Name: "i:type", Value: "EmployeeNumberIdentifier"}},
				Children: []Element{
					{Name: "CompanyCode", Text: companyCode},
					{Name: "EmployeeNumber", Text: employeeNumber},
				},
			},
		},
	}

	resp, err := s.invoke(ctx, call{
		Service: employmentService,
		Action:  actionGetEmployment,
		Header:  s.sessionHeader(token),
		Body:    body,
	})
	if err != nil {
		return EmploymentLookup{}, err
	}

	lookup := EmploymentLookup{Raw: resp}

	if success, ok := soapxml.ExtractField(resp, "success"); !ok || !strings.EqualFold(success, successSentinel) {
		s.logger.Info("employment lookup unsuccessful",
			slog.String("company_code", companyCode),
			slog.String("employee_number", employeeNumber),
		)
		return lookup, nil
	}

	results, ok := soapxml.ExtractBlock(resp, "results")
	if !ok {
		return lookup, nil
	}

	info, ok := soapxml.ExtractBlock(results, "employmentInformation")
	if !ok {
		return lookup, nil
	}

	detail := make(map[string]string, len(knownEmploymentFields))
	for _, field := range knownEmploymentFields {
		if v, ok := soapxml.ExtractField(info, field); ok && v != "" {
			detail[field] = v
		}
	}

	// The status element occasionally sits outside the nested block; scan the
	// whole response before giving up on it.
	if _, ok := detail["employmentStatus"]; !ok {
		if v, found := soapxml.ExtractField(resp, "employmentStatus"); found && v != "" {
			detail["employmentStatus"] = v
		}
	}

	lookup.Detail = detail

	s.logger.Info("employment detail resolved",
		slog.String("company_code", companyCode),
		slog.String("employee_number", employeeNumber),
		slog.String("employment_status", detail["employmentStatus"]),
		slog.Int("fields", len(detail)),
	)

	return lookup, nil
}

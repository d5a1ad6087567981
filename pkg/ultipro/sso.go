package ultipro

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brightpath-hr/employment-verification-api/pkg/soapxml"
)

// The backend's schema for person names is inconsistent between responses;
// synonyms are tried in this order.
var (
	firstNameFields = []string{"firstName", "givenName", "name"}
	lastNameFields  = []string{"lastName", "surname"}
)

// GetSsoUserByUserName is the exact-match lookup: one direct call with the
// email as the username parameter, yielding at most one identity record.
func (s *service) GetSsoUserByUserName(ctx context.Context, token, email string) (IdentityLookup, error) {
	body := Element{
		Name:  "GetSsoUserByUserName",
		Attrs: []Attr{{Name: "xmlns", Value: coreNS}},
		Children: []Element{
			{Name: "userName", Text: email},
		},
	}

	resp, err := s.invoke(ctx, call{
		Service: ssoService,
		Action:  actionGetSsoUser,
		Header:  s.sessionHeader(token),
		Body:    body,
	})
	if err != nil {
		// Lookup failures are "not found", not a request fault.
		return IdentityLookup{}, err
	}

	lookup := IdentityLookup{Raw: resp}

	result, ok := soapxml.ExtractBlock(resp, "getSsoUserByUserNameResult")
	if !ok {
		return lookup, nil
	}

	if success, ok := soapxml.ExtractField(result, "success"); !ok || !strings.EqualFold(success, successSentinel) {
		return lookup, nil
	}

	identifier, ok := soapxml.ExtractBlock(result, "employeeIdentifier")
	if !ok {
		return lookup, nil
	}

	employeeNumber, _ := soapxml.ExtractField(identifier, "employeeNumber")
	companyCode, _ := soapxml.ExtractField(identifier, "companyCode")
	if employeeNumber == "" || companyCode == "" {
		s.logger.Warn("sso result missing employee identifier fields",
			slog.String("email", email),
		)
		return lookup, nil
	}

	record := IdentityRecord{
		EmployeeNumber:  employeeNumber,
		CompanyCode:     companyCode,
		FirstName:       firstOf(result, firstNameFields),
		LastName:        firstOf(result, lastNameFields),
		Status:          statusOrUnknown(result),
		ClientUserName:  fieldOrEmpty(result, "clientUserName"),
		UltiProUserName: fieldOrEmpty(result, "ultiProUserName"),
	}

	lookup.Records = []IdentityRecord{record}
	return lookup, nil
}

// FindSsoUsers is the broad search: every employee block in the response is
// walked, and within each every SSO credential sub-block; a block counts as
// a match when either of its username fields equals the query email,
// case-insensitively. Every match is retained in document order — this is
// the path for deployments where one email can map to several identities
// across company codes.
func (s *service) FindSsoUsers(ctx context.Context, token, email string) (IdentityLookup, error) {
	body := Element{
		Name:  "FindSsoUsers",
		Attrs: []Attr{{Name: "xmlns", Value: coreNS}},
		Children: []Element{
			{Name: "userName", Text: email},
		},
	}

	resp, err := s.invoke(ctx, call{
		Service: ssoService,
		Action:  actionFindSsoUsers,
		Header:  s.sessionHeader(token),
		Body:    body,
	})
	if err != nil {
		return IdentityLookup{}, err
	}

	lookup := IdentityLookup{Raw: resp}

	for _, employee := range soapxml.ExtractAllBlocks(resp, "employeeSsoUser") {
		employeeNumber, _ := soapxml.ExtractField(employee, "employeeNumber")
		companyCode, _ := soapxml.ExtractField(employee, "companyCode")

		for _, sso := range soapxml.ExtractAllBlocks(employee, "ssoUser") {
			clientUserName, _ := soapxml.ExtractField(sso, "clientUserName")
			ultiProUserName, _ := soapxml.ExtractField(sso, "ultiProUserName")

			if !strings.EqualFold(clientUserName, email) && !strings.EqualFold(ultiProUserName, email) {
				continue
			}

			lookup.Records = append(lookup.Records, IdentityRecord{
				EmployeeNumber:  employeeNumber,
				CompanyCode:     companyCode,
				FirstName:       firstOf(employee, firstNameFields),
				LastName:        firstOf(employee, lastNameFields),
				Status:          statusOrUnknown(employee),
				ClientUserName:  clientUserName,
				UltiProUserName: ultiProUserName,
			})
		}
	}

	s.logger.Info("sso search completed",
		slog.String("email", email),
		slog.Int("matches", len(lookup.Records)),
	)

	return lookup, nil
}

func firstOf(block string, fields []string) string {
	for _, f := range fields {
		if v, ok := soapxml.ExtractField(block, f); ok && v != "" {
			return v
		}
	}
	return ""
}

func fieldOrEmpty(block, field string) string {
	v, _ := soapxml.ExtractField(block, field)
	return v
}

func statusOrUnknown(block string) string {
	if v, ok := soapxml.ExtractField(block, "status"); ok && v != "" {
		return v
	}
	return StatusUnknown
}

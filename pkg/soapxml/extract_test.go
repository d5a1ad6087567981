package soapxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractField_NamespacedAndBareAreEquivalent(t *testing.T) {
	namespaced := `<s:Envelope><ns2:EmployeeNumber>100624</ns2:EmployeeNumber></s:Envelope>`
	bare := `<Envelope><EmployeeNumber>100624</EmployeeNumber></Envelope>`

	nsVal, nsOK := ExtractField(namespaced, "employeeNumber")
	bareVal, bareOK := ExtractField(bare, "employeeNumber")

	require.True(t, nsOK)
	require.True(t, bareOK)
	assert.Equal(t, nsVal, bareVal)
	assert.Equal(t, "100624", nsVal)
}

func TestExtractField_MissingFieldIsAbsent(t *testing.T) {
	doc := `<Results><CompanyCode>BPML</CompanyCode></Results>`

	val, ok := ExtractField(doc, "employeeNumber")

	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestExtractField_MalformedInputIsAbsentNotPanic(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"<<<>>>",
		"<Token>abc",               // unclosed
		"</Token>",                 // close without open
		"plain text, not xml",      // no markup at all
		"<Token attr='x'\n\n junk", // broken open tag
	}

	for _, in := range inputs {
		val, ok := ExtractField(in, "token")
		assert.False(t, ok, "input %q", in)
		assert.Empty(t, val, "input %q", in)
	}
}

func TestExtractField_FirstOccurrenceWins(t *testing.T) {
	doc := `<A><Status>A</Status></A><B><Status>T</Status></B>`

	val, ok := ExtractField(doc, "status")

	require.True(t, ok)
	assert.Equal(t, "A", val)
}

func TestExtractField_TrimsInnerText(t *testing.T) {
	doc := "<Token>\n  abc123  \n</Token>"

	val, ok := ExtractField(doc, "token")

	require.True(t, ok)
	assert.Equal(t, "abc123", val)
}

func TestExtractField_CaseInsensitiveTagMatch(t *testing.T) {
	doc := `<EMPLOYMENTSTATUS>A</EMPLOYMENTSTATUS>`

	val, ok := ExtractField(doc, "employmentStatus")

	require.True(t, ok)
	assert.Equal(t, "A", val)
}

func TestExtractField_AttributesOnOpenTag(t *testing.T) {
	doc := `<Token xmlns="http://www.ultipro.com" id="1">tok-1</Token>`

	val, ok := ExtractField(doc, "token")

	require.True(t, ok)
	assert.Equal(t, "tok-1", val)
}

func TestExtractField_DoesNotMatchLongerTagNames(t *testing.T) {
	doc := `<EmployeeNumberAlias>999</EmployeeNumberAlias>`

	_, ok := ExtractField(doc, "employeeNumber")

	assert.False(t, ok)
}

func TestExtractBlock_CarvesInnerSpan(t *testing.T) {
	doc := `<Results><EmploymentInformation><EmploymentStatus>A</EmploymentStatus></EmploymentInformation></Results>`

	results, ok := ExtractBlock(doc, "results")
	require.True(t, ok)

	info, ok := ExtractBlock(results, "employmentInformation")
	require.True(t, ok)

	status, ok := ExtractField(info, "employmentStatus")
	require.True(t, ok)
	assert.Equal(t, "A", status)
}

func TestExtractBlock_NonGreedyStopsAtFirstClose(t *testing.T) {
	// Nested same-named tags are out of scope for the scanner: the span ends
	// at the first closing tag.
	doc := `<Item><Item>inner</Item>outer</Item>`

	val, ok := ExtractBlock(doc, "item")

	require.True(t, ok)
	assert.Equal(t, "<Item>inner", val)
}

func TestExtractAllBlocks_DocumentOrder(t *testing.T) {
	doc := `
		<EmployeeSsoUser><EmployeeNumber>1</EmployeeNumber></EmployeeSsoUser>
		<EmployeeSsoUser><EmployeeNumber>2</EmployeeNumber></EmployeeSsoUser>
		<EmployeeSsoUser><EmployeeNumber>3</EmployeeNumber></EmployeeSsoUser>`

	blocks := ExtractAllBlocks(doc, "employeeSsoUser")

	require.Len(t, blocks, 3)
	for i, want := range []string{"1", "2", "3"} {
		num, ok := ExtractField(blocks[i], "employeeNumber")
		require.True(t, ok)
		assert.Equal(t, want, num)
	}
}

func TestExtractAllBlocks_NoneFound(t *testing.T) {
	blocks := ExtractAllBlocks("<Other/>", "employeeSsoUser")

	assert.Empty(t, blocks)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "EmployeeNumber", Capitalize("employeeNumber"))
	assert.Equal(t, "Token", Capitalize("Token"))
	assert.Equal(t, "", Capitalize("  "))
}

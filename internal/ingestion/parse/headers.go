// Package parse turns raw upload cells into typed policy rows.
package parse

import "github.com/smallbiznis/brokerage/pkg/tabular"

// Canonical field keys for policy transaction exports.
const (
	FieldProductName       = "productName"
	FieldProductVariant    = "productVariant"
	FieldPremiumPayingTerm = "premiumPayingTerm"
	FieldPolicyTerm        = "policyTerm"
	FieldPolicyNo          = "policyNo"
	FieldOriginalIssueDate = "originalIssueDate"
	FieldNetPremium        = "netPremium"
	FieldSumAssured        = "sumAssured"
	FieldPlanType          = "planType"
)

// headerAliases maps normalized headers (lower-cased, whitespace stripped)
// to canonical field keys. Vendors name the same columns differently; the
// table collapses the known spellings without per-vendor configuration.
var headerAliases = map[string]string{
	"productname": FieldProductName,
	"product":     FieldProductName,

	"productvariant": FieldProductVariant,
	"variant":        FieldProductVariant,

	"premiumpayingterm": FieldPremiumPayingTerm,
	"ppt":               FieldPremiumPayingTerm,

	"policyterm": FieldPolicyTerm,
	"pt":         FieldPolicyTerm,

	"policyno":     FieldPolicyNo,
	"policynumber": FieldPolicyNo,
	"policy#":      FieldPolicyNo,
	"policynum":    FieldPolicyNo,

	"originalissuedate": FieldOriginalIssueDate,
	"issuedate":         FieldOriginalIssueDate,
	"oid":               FieldOriginalIssueDate,

	"netpremium": FieldNetPremium,
	"premium":    FieldNetPremium,

	"sumassured": FieldSumAssured,
	"sa":         FieldSumAssured,

	"par/npar/ul": FieldPlanType,
	"plantype":    FieldPlanType,
	"plan":        FieldPlanType,
}

// MapHeaders resolves each raw column header to its canonical field key.
// Unrecognized headers map to "" and their cells are dropped from the
// enriched row; no error is raised for unknown columns.
func MapHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	for i, header := range headers {
		columns[i] = headerAliases[tabular.NormalizeHeader(header)]
	}
	return columns
}

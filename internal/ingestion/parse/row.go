package parse

import (
	"strconv"
	"strings"
	"time"
)

// Row is one policy transaction after header mapping and cell coercion.
// HasIssueDate distinguishes "parsed to zero" from "absent/unparseable".
type Row struct {
	ProductName       string
	ProductVariant    string
	PremiumPayingTerm int
	PolicyTerm        int
	PolicyNo          string
	OriginalIssueDate time.Time
	HasIssueDate      bool
	NetPremium        float64
	SumAssured        float64
	PlanType          string

	// Raw keeps the mapped cells as uploaded, for the record snapshot.
	Raw map[string]any
}

// BuildRow assembles a Row from one line of cells using the column keys
// produced by MapHeaders. Numeric coercion is lenient: a malformed term or
// premium becomes zero and is caught downstream by validation or rule
// matching, matching how manually curated exports behave.
func BuildRow(columns []string, cells []string) Row {
	row := Row{Raw: make(map[string]any, len(columns))}

	for i, key := range columns {
		if key == "" || i >= len(cells) {
			continue
		}
		value := strings.TrimSpace(cells[i])
		if value == "" {
			continue
		}
		row.Raw[key] = value

		switch key {
		case FieldProductName:
			row.ProductName = value
		case FieldProductVariant:
			row.ProductVariant = value
		case FieldPremiumPayingTerm:
			row.PremiumPayingTerm = parseInt(value)
		case FieldPolicyTerm:
			row.PolicyTerm = parseInt(value)
		case FieldPolicyNo:
			row.PolicyNo = value
		case FieldOriginalIssueDate:
			row.OriginalIssueDate, row.HasIssueDate = ParseDate(value)
		case FieldNetPremium:
			row.NetPremium = parseAmount(value)
		case FieldSumAssured:
			row.SumAssured = parseAmount(value)
		case FieldPlanType:
			row.PlanType = value
		}
	}

	return row
}

func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// parseAmount reads a money cell, tolerating thousands separators.
func parseAmount(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

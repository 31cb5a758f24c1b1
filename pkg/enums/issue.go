package enums

import "fmt"

// IssueReason is the top-level problem classification chosen at ticket creation.
type IssueReason string

const (
	IssueReasonWarehouse IssueReason = "warehouse"
	IssueReasonSupplier  IssueReason = "supplier"
	IssueReasonClient    IssueReason = "client"
	IssueReasonDelivery  IssueReason = "delivery"
)

var validIssueReasons = []IssueReason{
	IssueReasonWarehouse,
	IssueReasonSupplier,
	IssueReasonClient,
	IssueReasonDelivery,
}

// issueTypesByReason maps each reason to the issue types it admits.
// A ticket's issue_type must be listed under its issue_reason.
var issueTypesByReason = map[IssueReason][]string{
	IssueReasonWarehouse: {
		"damaged",
		"expired",
		"stock_shortage",
		"wrong_preparation",
	},
	IssueReasonSupplier: {
		"document_error",
		"missing_balance",
		"wrong_order",
		"over_quantity",
		"barcode_or_name_error",
		"phantom_order",
		"pricing_error",
		"wait_time_exceeded",
		"invoice_mismatch",
		"factory_defect",
	},
	IssueReasonClient: {
		"refused_delivery",
		"location_closed",
		"system_outage",
		"no_storage_space",
		"packaging_concern",
	},
	IssueReasonDelivery: {
		"late_arrival",
		"damaged",
		"vehicle_breakdown",
	},
}

// String implements fmt.Stringer.
func (r IssueReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known IssueReason.
func (r IssueReason) IsValid() bool {
	for _, candidate := range validIssueReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// Types returns the issue types admitted under this reason.
func (r IssueReason) Types() []string {
	types := issueTypesByReason[r]
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// AllowsType reports whether issueType is listed under this reason.
func (r IssueReason) AllowsType(issueType string) bool {
	for _, candidate := range issueTypesByReason[r] {
		if candidate == issueType {
			return true
		}
	}
	return false
}

// ParseIssueReason converts raw input into an IssueReason.
func ParseIssueReason(value string) (IssueReason, error) {
	for _, candidate := range validIssueReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid issue reason %q", value)
}

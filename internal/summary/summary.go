// Package summary normalizes and validates the structured policy data the
// model returns. The canonical form is a flat JSON object; unknown fields are
// preserved so prompt additions never require a schema migration.
package summary

import "errors"

// ErrInvalidShape means the model output survived parsing but does not fit the
// expected summary shape.
var ErrInvalidShape = errors.New("summary does not match expected shape")

// ScalarFields are the nullable string fields of a policy summary.
var ScalarFields = []string{
	"insurer_company",
	"policy_number",
	"policy_type",
	"policy_start_date",
	"policy_end_date",
	"issue_date",
	"policyholder_name",
	"policyholder_address",
	"policyholder_email",
	"insurer_address",
	"insurer_email",
	"insurer_website",
	"policy_overview",
	"premium_amount",
	"notes_for_client",
}

// ListFields are the string-array fields of a policy summary. Absent lists
// default to empty rather than null so consumers can range over them blindly.
var ListFields = []string{
	"insurer_contacts",
	"key_coverages",
	"deductibles",
	"limits",
	"exclusions",
	"important_conditions",
}

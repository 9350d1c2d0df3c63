package summary

// Placeholder is the summary stored when the model output cannot be parsed
// into the expected shape and the service is configured to keep the raw text
// instead of failing the request.
func Placeholder() map[string]any {
	return map[string]any{
		"insurer_company":      nil,
		"policy_number":        nil,
		"policy_type":          nil,
		"policy_start_date":    nil,
		"policy_end_date":      nil,
		"issue_date":           nil,
		"policyholder_name":    nil,
		"policyholder_address": nil,
		"policyholder_email":   nil,
		"insurer_address":      nil,
		"insurer_email":        nil,
		"insurer_website":      nil,
		"insurer_contacts":     []any{},
		"policy_overview":      "Unable to parse policy details. Please review the raw text.",
		"key_coverages":        []any{"See raw text for coverage details"},
		"deductibles":          []any{"See raw text for deductible information"},
		"limits":               []any{"See raw text for limit information"},
		"premium_amount":       nil,
		"exclusions":           []any{"See raw text for exclusions"},
		"important_conditions": []any{},
		"notes_for_client":     "The AI was unable to fully parse this document. Please review the raw extracted text for details.",
	}
}

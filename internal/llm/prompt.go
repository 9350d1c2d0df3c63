package llm

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxPromptChars bounds how much document text goes into a single prompt.
// Large policies routinely exceed model context; the head of the document holds
// the declarations pages, which carry most of the extractable fields.
const DefaultMaxPromptChars = 100000

const analystInstructions = `You are an expert insurance policy analyst. Your goal is to extract structured data from policy documents with high precision.

**CRITICAL RULES:**
1.  **Extract as much as possible.** If a field is not explicitly labeled but can be confidently inferred (e.g., "Annual Premium" from a total amount), extract it.
2.  **Handle Lists Intelligently.** "Key Coverages", "Exclusions", and "Conditions" are often found in bullet points, tables, or dense paragraphs. Break them down into clear, separate string items.
3.  **No Generic Defaults.** Do NOT return strings like "Not specified", "Valued Client", "Unknown", "TBD", or "Commercial Insurance" unless explicitly written in the document. If a field is not found, return null or an empty string. BE STRICT.
4.  **Policy Type:** Analyze the content to determine if it is: Commercial Property, General Liability, Workers Comp, Cyber, Auto, etc. If the type is not clear, leave it empty.

**OUTPUT JSON FORMAT:**

**Core Policy Identification:**
- insurer_company: The carrier name (e.g., "Chubb", "Travelers", "The Hartford"). Look for headers or logos.
- policy_number: The contract number.
- policy_type: The specific line of business.

**Important Dates:**
- policy_start_date: Effective date.
- policy_end_date: Expiration date.
- issue_date: Date of issuance.

**Policyholder Information:**
- policyholder_name: The "Insured" name.
- policyholder_address: The address of the insured.
- policyholder_email: The email of the insured.

**Insurer Information:**
- insurer_address: The address of the insurance company.
- insurer_email: The email of the insurance company.
- insurer_website: The website of the insurance company.
- insurer_contacts: List of phone numbers or contact names for the insurer.

**Coverage & Financial Details:**
- policy_overview: A 2-3 sentence summary of the risk and coverage scope. "This Commercial Property policy covers..."
- key_coverages: LIST of specific coverages found (e.g., "Building: $500k", "BPP: $100k").
- deductibles: LIST of deductibles (e.g., "$1,000 All Perils").
- limits: LIST of aggregation limits (e.g., "$2M General Aggregate").
- premium_amount: The Total Policy Premium. Explicitly state the frequency, e.g., "$120 Annually" or "$50 Monthly".

**Important Policy Details:**
- exclusions: LIST of specific excluded losses (e.g., "Earthquake", "Flood", "Mold").
- important_conditions: LIST of key clauses (e.g., "Coinsurance: 80%", "Protective Safeguards Endorsement").

**Client Notes:**
- notes_for_client: A professional summary of 3-4 key takeaways or warnings for the broker/client.`

// BuildPrompt assembles the single user message sent to the model.
// Document text beyond maxChars is dropped; maxChars <= 0 uses the default cap.
func BuildPrompt(policyText string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	if len(policyText) > maxChars {
		// Back off to a rune boundary so the cap never splits a multi-byte char.
		for maxChars > 0 && !utf8.RuneStart(policyText[maxChars]) {
			maxChars--
		}
		policyText = policyText[:maxChars]
	}

	var b strings.Builder
	b.Grow(len(analystInstructions) + len(policyText) + 96)
	b.WriteString(analystInstructions)
	b.WriteString("\n\nPlease analyze this insurance policy document and extract the key information:\n\n")
	b.WriteString(policyText)
	return b.String()
}

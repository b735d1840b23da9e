package templates

// Built-in catalog. bounty_percentage is derived at render time from
// recovery_percentage and is deliberately not declared.
var builtins = []Template{
	{
		ID:         "recovery-offer",
		CategoryID: "negotiation",
		TemplateString: "Hello. This message concerns the funds moved from ${source_address}. " +
			"We are prepared to treat this as a whitehat recovery: return ${recovery_percentage}% " +
			"to ${receive_address} and keep ${bounty_percentage}% as a bounty, no questions asked." +
			"${deadline? This offer stands until ${deadline}.}",
		Variables: []TemplateVariable{
			{Key: "source_address", Label: "Source address", Type: TypeAddress, Prefix: "moved from "},
			{Key: "recovery_percentage", Label: "Recovery percentage", Type: TypePercentage, Prefix: "return "},
			{Key: "receive_address", Label: "Return address", Type: TypeAddress, Prefix: "to "},
			{Key: "deadline", Label: "Deadline", Type: TypeText, Optional: true, Prefix: "stands until "},
		},
	},
	{
		ID:         "return-confirmation",
		CategoryID: "negotiation",
		TemplateString: "We confirm receipt of ${amount}${token_name? ${token_name}} at ${receive_address}." +
			"${tx_hash? Reference transaction: ${tx_hash}.} This matter is now considered closed.",
		Variables: []TemplateVariable{
			{Key: "amount", Label: "Amount", Type: TypeNumber, Prefix: "receipt of "},
			{Key: "token_name", Label: "Token", Type: TypeToken, Optional: true},
			{Key: "receive_address", Label: "Receiving address", Type: TypeAddress, Prefix: "at "},
			{Key: "tx_hash", Label: "Transaction hash", Type: TypeTxHash, Optional: true, Prefix: "transaction: "},
		},
	},
	{
		ID:         "contact-request",
		CategoryID: "outreach",
		TemplateString: "This address is monitored on behalf of ${project_name}. " +
			"Please establish contact regarding transaction ${tx_hash}." +
			"${contact_channel? Reach us via ${contact_channel}.}",
		Variables: []TemplateVariable{
			{Key: "project_name", Label: "Project name", Type: TypeText, Prefix: "on behalf of "},
			{Key: "tx_hash", Label: "Transaction hash", Type: TypeTxHash, Prefix: "transaction "},
			{Key: "contact_channel", Label: "Contact channel", Type: TypeText, Optional: true, Prefix: "via "},
		},
	},
}

// Catalog returns a copy of the built-in templates.
func Catalog() []Template {
	return append([]Template(nil), builtins...)
}

// ByID looks a built-in template up by id.
func ByID(id string) (Template, bool) {
	for _, t := range builtins {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

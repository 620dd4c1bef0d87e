package llm

import (
	"strings"

	"github.com/expenso-app/bill-extraction/constants"
)

// BuildPrompt composes the extraction instruction sent alongside the
// encoded document. The model must answer with nothing but the JSON
// object; fences still appear in practice and are stripped downstream.
func BuildPrompt() string {
	parts := []string{
		"You are a bill and receipt parser. Analyze the attached document and return ONLY a JSON object, no prose and no Markdown.",
		"The object must have exactly these fields: amount, category, date, vendor, description, items.",
		"amount: the grand total as a number. Omit it if no total is visible.",
		"category: one of " + strings.Join(constants.AsStringSlice(), ", ") + ". If uncertain, use 'other'.",
		"date: the transaction date as YYYY-MM-DD (ISO-8601).",
		"vendor: the merchant or vendor name as printed.",
		"description: a short business-appropriate summary of the purchase.",
		"items: an array of {name, quantity, price} for each visible line item; quantity defaults to 1, price is per-line.",
		"Never output null. If a field is not present on the document, omit it.",
	}
	return strings.Join(parts, " ")
}

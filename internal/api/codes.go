// Package api talks to the consumption chat backend.
package api

// Code is the result code carried by every backend response.
type Code string

// Backend result codes.
const (
	CodeSystemError        Code = "001"
	CodeBusinessKeyword    Code = "002"
	CodeSensitiveData      Code = "003"
	CodeKeyword            Code = "004"
	CodeTopicContent       Code = "005"
	CodeTokenLimit         Code = "006"
	CodeIdleTimeout        Code = "007"
	CodeStoreLimit         Code = "008"
	CodeMultipleCategories Code = "009"
	CodeLowSimilarity      Code = "010"
	CodeSuccess            Code = "200"
)

var systemResponses = map[Code]string{
	CodeSystemError:        "Something unexpected happened on our side. Please try again later or contact customer service.",
	CodeBusinessKeyword:    "Only card spending analysis is available here. Try asking something else.",
	CodeSensitiveData:      "Please do not enter personal data such as ID numbers or contact details. Try asking something else.",
	CodeKeyword:            "That content cannot be answered. Try asking something else.",
	CodeTopicContent:       "That content cannot be answered. Try asking something else.",
	CodeTokenLimit:         "You have reached today's question limit. Continue in the card overview or come back tomorrow.",
	CodeIdleTimeout:        "You were signed out after a period of inactivity. Please sign in again.",
	CodeStoreLimit:         "Up to 2 stores can be compared at a time. Split the question or ask again.",
	CodeMultipleCategories: "Only 1 spending category can be queried at a time. Split the question or ask again.",
	CodeLowSimilarity:      "Thanks for asking. Only card spending analysis is available here. Try asking something else.",
}

// SystemResponse returns the message shown to the user for code.
// Success and unknown codes have no message.
func SystemResponse(code Code) string {
	return systemResponses[code]
}

// IsSuccess reports whether code signals success. An empty code counts as success.
func (c Code) IsSuccess() bool {
	return c == CodeSuccess || c == ""
}

// Known reports whether code is one the backend documents.
func (c Code) Known() bool {
	_, ok := systemResponses[c]
	return ok || c == CodeSuccess
}

// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Die construction and evaluation errors
	CodeDieInvalid      Code = "DIE_INVALID"
	CodeDieDrawDomain   Code = "DIE_DRAW_DOMAIN"
	CodeDieExhausted    Code = "DIE_EXHAUSTED"
	CodeWeightOverflow  Code = "DIE_WEIGHT_OVERFLOW"
	CodeTooManyOutcomes Code = "DIE_TOO_MANY_OUTCOMES"

	// Catalog errors
	CodeCatalogUnknownDie Code = "CATALOG_UNKNOWN_DIE"

	// Report errors
	CodeReportInvalidFormat  Code = "REPORT_INVALID_FORMAT"
	CodeReportInvalidSamples Code = "REPORT_INVALID_SAMPLES"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - structural validation failures, bad input
	case CodeDieInvalid,
		CodeReportInvalidFormat,
		CodeReportInvalidSamples:
		return codes.InvalidArgument

	// OutOfRange - a drawn operand fell outside an operation's domain
	case CodeDieDrawDomain:
		return codes.OutOfRange

	// ResourceExhausted - pools, use counters and enumeration budgets
	case CodeDieExhausted,
		CodeWeightOverflow,
		CodeTooManyOutcomes:
		return codes.ResourceExhausted

	// NotFound - resource doesn't exist
	case CodeCatalogUnknownDie:
		return codes.NotFound

	default:
		return codes.Internal
	}
}

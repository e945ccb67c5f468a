package errors

type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeQuotaExceeded   Code = "QUOTA_EXCEEDED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeReadOnly        Code = "READ_ONLY"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

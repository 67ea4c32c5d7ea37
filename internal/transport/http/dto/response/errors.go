package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrPromptNotFound = ErrorResponse{
		Status:  "error",
		Error:   "prompt_not_found",
		Details: "No prompt with this id",
	}

	ErrFileTooLarge = ErrorResponse{
		Status:  "error",
		Error:   "file_too_large",
		Details: "Uploaded file exceeds the size limit",
	}

	ErrIdentityRequired = ErrorResponse{
		Status:  "error",
		Error:   "identity_required",
		Details: "Authenticated identity header is missing",
	}

	ErrIdentityMismatch = ErrorResponse{
		Status:  "error",
		Error:   "identity_mismatch",
		Details: "Claimed identity does not match the authenticated one",
	}
)

var ErrInternal = ErrorResponse{
	Status: "error",
	Error:  "internal_error",
}

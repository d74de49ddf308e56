package analysis

import "errors"

var (
	// ErrMissingInput means neither a file nor inline text was supplied,
	// or both were.
	ErrMissingInput = errors.New("either a document file or text content is required, but not both")
	// ErrTooShort means the document text is below the minimum length.
	ErrTooShort = errors.New("document content is too short for meaningful analysis (minimum 100 characters)")
	// ErrTooLong means the document text exceeds the maximum length.
	ErrTooLong = errors.New("document content exceeds the maximum supported length (100,000 characters)")
	// ErrMissingEmail means accounts are enabled but no email was supplied.
	ErrMissingEmail = errors.New("email is required")
	// ErrUnknownAccount means account enforcement is on and the email has
	// no stored records.
	ErrUnknownAccount = errors.New("no account found for this email")
)

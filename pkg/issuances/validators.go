package issuances

type ListIssuancesQuery struct {
	Limit    int    `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset   int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
	BookID   *int64 `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1"`
	ReaderID *int64 `query:"reader_id" json:"reader_id,omitempty" validate:"omitempty,min=1"`
}

// CreateIssuancePayload takes dates as YYYY-MM-DD.
type CreateIssuancePayload struct {
	BookID         int64   `json:"book_id" validate:"required,min=1"`
	ReaderID       int64   `json:"reader_id" validate:"required,min=1"`
	DateIssue      string  `json:"date_issue" mod:"trim" validate:"required,date"`
	DateExpiration *string `json:"date_expiration,omitempty" validate:"omitempty,date"`
}

// UpdateIssuancePayload clears the expiration date when date_expiration is
// an empty string.
type UpdateIssuancePayload struct {
	BookID         *int64  `json:"book_id,omitempty" validate:"omitempty,min=1"`
	ReaderID       *int64  `json:"reader_id,omitempty" validate:"omitempty,min=1"`
	DateIssue      *string `json:"date_issue,omitempty" validate:"omitempty,date"`
	DateExpiration *string `json:"date_expiration,omitempty" validate:"omitempty,date"`
}

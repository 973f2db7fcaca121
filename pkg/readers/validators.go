package readers

type ListReadersQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
	Phone  *string `query:"phone" json:"phone,omitempty" validate:"omitempty,max=128"`
}

type CreateReaderPayload struct {
	FirstName   string `json:"first_name" mod:"trim" validate:"required,max=255"`
	LastName    string `json:"last_name" mod:"trim" validate:"required,max=255"`
	PhoneNumber string `json:"phone_number" mod:"trim" validate:"required,max=128"`
}

type UpdateReaderPayload struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=128"`
}

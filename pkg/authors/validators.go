package authors

type ListAuthorsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateAuthorPayload struct {
	Name    string `json:"name" mod:"trim" validate:"required,max=255"`
	Surname string `json:"surname" mod:"trim" validate:"required,max=255"`
}

type UpdateAuthorPayload struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Surname *string `json:"surname,omitempty" validate:"omitempty,max=255"`
}

package dto

type CreateCategoryInput struct {
	Name string
	Code int // 0 generates one
}

type UpdateCategoryInput struct {
	ID   string
	Name string
	Code int // 0 keeps the current code
}

package model

import (
	"strings"
	"time"
)

const categoryCodeDigits = 4

type Category struct {
	BaseModel
	Name string `json:"name"`
	Code int    `json:"code"`
}

type CategoryParams struct {
	ID        string
	Name      string
	Code      int // 0 generates a 4 digit code
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(p CategoryParams) (*Category, error) {
	now := time.Now()
	c := &Category{
		BaseModel: BaseModel{ID: p.ID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt},
		Name:      strings.TrimSpace(p.Name),
		Code:      p.Code,
	}
	if c.Name == "" {
		return nil, newValidationError("name", "required", "category name is required")
	}
	if c.Code < 0 {
		return nil, newValidationError("code", "gt_zero", "category code cannot be negative")
	}
	if c.Code == 0 {
		c.Code = generateCode(categoryCodeDigits)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return c, nil
}

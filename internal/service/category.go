package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
)

type CategoryService interface {
	Create(name string) (domain.Category, error)
	List() ([]domain.Category, error)
	Get(id domain.CategoryId) (domain.Category, error)
	Update(id domain.CategoryId, name string) (domain.Category, error)
	Delete(id domain.CategoryId) error
}

type CategoryStorage interface {
	CreateCategory(category domain.Category) (domain.Category, error)
	Category(id domain.CategoryId) (domain.Category, error)
	Categories() ([]domain.Category, error)
	UpdateCategory(category domain.Category) (domain.Category, error)
	DeleteCategory(id domain.CategoryId) error
	ExistsCategory(id domain.CategoryId) (bool, error)
}

type Category struct {
	storage   CategoryStorage
	sanitizer *bluemonday.Policy
}

func NewCategory(storage CategoryStorage) *Category {
	return &Category{
		storage:   storage,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (c *Category) sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(c.sanitizer.Sanitize(name))
	if name == "" {
		return "", errors.BadRequest("Name is empty")
	}
	return name, nil
}

func (c *Category) Create(name string) (domain.Category, error) {
	name, err := c.sanitizeName(name)
	if err != nil {
		return domain.Category{}, err
	}
	return c.storage.CreateCategory(domain.Category{Name: name})
}

func (c *Category) List() ([]domain.Category, error) {
	return c.storage.Categories()
}

func (c *Category) Get(id domain.CategoryId) (domain.Category, error) {
	return c.storage.Category(id)
}

func (c *Category) Update(id domain.CategoryId, name string) (domain.Category, error) {
	name, err := c.sanitizeName(name)
	if err != nil {
		return domain.Category{}, err
	}
	return c.storage.UpdateCategory(domain.Category{Id: id, Name: name})
}

func (c *Category) Delete(id domain.CategoryId) error {
	exists, err := c.storage.ExistsCategory(id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("Category not found")
	}
	return c.storage.DeleteCategory(id)
}

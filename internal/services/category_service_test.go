package services_test

import (
	"testing"

	"catalog/internal/errs"
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := services.NewCategoryService(repo)

	all := []models.Category{{ID: categoryID, Name: "Phone"}}
	repo.On("GetAll", ctx).Return(all, nil).Once()
	got, err := service.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	repo.On("GetByID", ctx, categoryID).Return(phone(), nil).Once()
	c, err := service.GetCategory(ctx, categoryID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", c.Name)

	repo.On("GetByID", ctx, productID).Return(nil, notFound("category", productID)).Once()
	_, err = service.GetCategory(ctx, productID)
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)

	repo.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool { return c.Name == "Tablet" })).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Category).ID = productID }).
		Return(nil).Once()
	created, err := service.CreateCategory(ctx, "Tablet")
	require.NoError(t, err)
	assert.Equal(t, productID, created.ID)

	repo.On("Create", ctx, mock.Anything).Return(errs.ErrConstraint).Once()
	_, err = service.CreateCategory(ctx, "Tablet")
	assert.ErrorIs(t, err, errs.ErrConstraint)

	repo.AssertExpectations(t)
}

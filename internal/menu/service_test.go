package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, item MenuItem) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MenuItem), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MenuItem), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func price(v float64) *float64 { return &v }
func str(v string) *string     { return &v }

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryAppetizer, c)

	c, err = ParseCategory("main course")
	require.NoError(t, err)
	assert.Equal(t, CategoryMainCourse, c)

	_, err = ParseCategory("Brunch")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success with default category", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, MenuItem{Name: "Spring Rolls", Category: CategoryAppetizer, Price: 5, IsVeg: true}).
			Return("m1", nil)

		item, err := NewService(repo).Create(ctx, CreateInput{Name: " Spring Rolls ", Price: price(5), IsVeg: true})
		require.NoError(t, err)
		assert.Equal(t, "m1", item.ID)
		assert.Equal(t, CategoryAppetizer, item.Category)
		repo.AssertExpectations(t)
	})

	t.Run("Free item allowed", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return("m2", nil)

		item, err := NewService(repo).Create(ctx, CreateInput{Name: "Water", Price: price(0), Category: "beverage"})
		require.NoError(t, err)
		assert.Equal(t, CategoryBeverage, item.Category)
	})

	rejects := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{"NoName", CreateInput{Price: price(1)}, ErrNameRequired},
		{"NoPrice", CreateInput{Name: "Tea"}, ErrPriceRequired},
		{"NegativePrice", CreateInput{Name: "Tea", Price: price(-1)}, ErrInvalidPrice},
		{"BadCategory", CreateInput{Name: "Tea", Price: price(1), Category: "Brunch"}, ErrInvalidCategory},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, err := NewService(repo).Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return("", errors.New("db down"))

		_, err := NewService(repo).Create(ctx, CreateInput{Name: "Tea", Price: price(1)})
		assert.EqualError(t, err, "db down")
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Update", ctx, "m1", map[string]any{"price": 7.5, "category": CategoryDessert}).Return(nil)
		repo.On("Get", ctx, "m1").Return(&MenuItem{ID: "m1", Price: 7.5, Category: CategoryDessert}, nil)

		item, err := NewService(repo).Update(ctx, "m1", UpdateInput{Price: price(7.5), Category: str("dessert")})
		require.NoError(t, err)
		assert.Equal(t, 7.5, item.Price)
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Update", ctx, "x", mock.Anything).Return(ErrItemNotFound)

		_, err := NewService(repo).Update(ctx, "x", UpdateInput{Name: str("Tea")})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("Rejects", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Update(ctx, "m1", UpdateInput{})
		assert.ErrorIs(t, err, ErrNoFields)
		_, err = svc.Update(ctx, "m1", UpdateInput{Name: str("  ")})
		assert.ErrorIs(t, err, ErrNameRequired)
		_, err = svc.Update(ctx, "m1", UpdateInput{Price: price(-2)})
		assert.ErrorIs(t, err, ErrInvalidPrice)

		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("List", ctx).Return([]MenuItem{{ID: "a"}}, nil)
	repo.On("Delete", ctx, "a").Return(nil)
	repo.On("Delete", ctx, "b").Return(errors.New("db down"))

	svc := NewService(repo)
	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	assert.NoError(t, svc.Delete(ctx, "a"))
	assert.Error(t, svc.Delete(ctx, "b"))
}

package repositories_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"catalog/internal/database"
	"catalog/internal/errs"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stores struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	users      repositories.UserRepository
}

func memoryStores(t *testing.T) stores {
	return stores{
		products:   repositories.NewMockProductRepository(),
		categories: repositories.NewMockCategoryRepository(),
		users:      repositories.NewMockUserRepository(),
	}
}

func sqliteStores(t *testing.T) stores {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenGORM("sqlite", dsn)
	require.NoError(t, err)
	return stores{
		products:   repositories.NewGORMProductRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		users:      repositories.NewGORMUserRepository(db),
	}
}

func mongoStores(t *testing.T) stores {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := database.ConnectMongo(ctx, uri, "catalog_test_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return stores{
		products:   repositories.NewMongoProductRepository(db),
		categories: repositories.NewMongoCategoryRepository(db),
		users:      repositories.NewMongoUserRepository(db),
	}
}

var backends = map[string]func(t *testing.T) stores{
	"memory": memoryStores,
	"sqlite": sqliteStores,
	"mongo":  mongoStores,
}

func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func seed(t *testing.T, s stores) (phone, laptop *models.Category, products []*models.Product) {
	ctx := context.Background()
	phone = &models.Category{Name: "Phone"}
	laptop = &models.Category{Name: "Laptop"}
	require.NoError(t, s.categories.Create(ctx, phone))
	require.NoError(t, s.categories.Create(ctx, laptop))

	specs := []struct {
		name  string
		cat   *models.Category
		price int64
	}{
		{"Pixel 8", phone, 699},
		{"ThinkPad X1", laptop, 1899},
		{"iPhone 15", phone, 799},
		{"Galaxy S24", phone, 899},
	}
	for _, sp := range specs {
		p := &models.Product{Name: sp.name, CategoryID: sp.cat.ID, Category: sp.cat, Price: sp.price}
		require.NoError(t, s.products.Create(ctx, p))
		require.NotEmpty(t, p.ID)
		products = append(products, p)
		// keep created_at ordering stable on coarse clocks
		time.Sleep(2 * time.Millisecond)
	}
	return phone, laptop, products
}

func TestProductRepositories(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			phone, laptop, seeded := seed(t, s)

			t.Run("FindAllInInsertionOrder", func(t *testing.T) {
				got, err := s.products.Find(ctx, models.ProductFilter{Limit: 10})
				require.NoError(t, err)
				require.Len(t, got, 4)
				for i, p := range got {
					assert.Equal(t, seeded[i].ID, p.ID)
					require.NotNil(t, p.Category)
					assert.Equal(t, p.CategoryID, p.Category.ID)
				}
			})

			t.Run("FindPaged", func(t *testing.T) {
				got, err := s.products.Find(ctx, models.ProductFilter{Limit: 2, Skip: 2})
				require.NoError(t, err)
				require.Len(t, got, 2)
				assert.Equal(t, seeded[2].ID, got[0].ID)
				assert.Equal(t, seeded[3].ID, got[1].ID)
			})

			t.Run("FindSkipPastEnd", func(t *testing.T) {
				got, err := s.products.Find(ctx, models.ProductFilter{Limit: 4, Skip: math.MaxInt})
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("FindByCategoryIsCaseInsensitiveSubstring", func(t *testing.T) {
				got, err := s.products.Find(ctx, models.ProductFilter{Category: "PHO", Limit: 10})
				require.NoError(t, err)
				require.Len(t, got, 3)
				for _, p := range got {
					assert.Equal(t, phone.ID, p.Category.ID)
				}

				got, err = s.products.Find(ctx, models.ProductFilter{Category: "top", Limit: 10})
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, laptop.Name, got[0].Category.Name)
			})

			t.Run("FindTreatsPatternLiterally", func(t *testing.T) {
				got, err := s.products.Find(ctx, models.ProductFilter{Category: "%", Limit: 10})
				require.NoError(t, err)
				assert.Empty(t, got)

				got, err = s.products.Find(ctx, models.ProductFilter{Category: ".*", Limit: 10})
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("GetByID", func(t *testing.T) {
				got, err := s.products.GetByID(ctx, seeded[1].ID)
				require.NoError(t, err)
				assert.Equal(t, "ThinkPad X1", got.Name)
				assert.Equal(t, int64(1899), got.Price)
				require.NotNil(t, got.Category)
				assert.Equal(t, "Laptop", got.Category.Name)

				_, err = s.products.GetByID(ctx, primitive.NewObjectID().Hex())
				assert.ErrorIs(t, err, errs.ErrNotFound)
			})

			t.Run("UpdateReplacesMutableFields", func(t *testing.T) {
				p, err := s.products.GetByID(ctx, seeded[0].ID)
				require.NoError(t, err)
				createdAt := p.CreatedAt

				p.Name = "Pixel 8 Pro"
				p.Price = 999
				p.CategoryID = laptop.ID
				p.Category = laptop
				p.RemainingQuantity = intPtr(3)
				p.Chipset = strPtr("Tensor G3")
				p.ScreenSize = floatPtr(6.7)
				p.ImageURL = strPtr("https://cdn.example.com/p8pro.png")
				require.NoError(t, s.products.Update(ctx, p))

				got, err := s.products.GetByID(ctx, p.ID)
				require.NoError(t, err)
				assert.Equal(t, "Pixel 8 Pro", got.Name)
				assert.Equal(t, int64(999), got.Price)
				assert.Equal(t, laptop.ID, got.Category.ID)
				require.NotNil(t, got.RemainingQuantity)
				assert.Equal(t, 3, *got.RemainingQuantity)
				require.NotNil(t, got.ScreenSize)
				assert.InDelta(t, 6.7, *got.ScreenSize, 1e-9)
				assert.WithinDuration(t, createdAt, got.CreatedAt, time.Millisecond)

				got.Chipset = nil
				got.ImageURL = nil
				require.NoError(t, s.products.Update(ctx, got))
				cleared, err := s.products.GetByID(ctx, p.ID)
				require.NoError(t, err)
				assert.Nil(t, cleared.Chipset)
				assert.Nil(t, cleared.ImageURL)
			})

			t.Run("UpdateMissing", func(t *testing.T) {
				p := &models.Product{ID: primitive.NewObjectID().Hex(), Name: "Ghost", CategoryID: phone.ID, Category: phone, Price: 1}
				err := s.products.Update(ctx, p)
				assert.ErrorIs(t, err, errs.ErrNotFound)
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, s.products.Delete(ctx, seeded[3].ID))
				_, err := s.products.GetByID(ctx, seeded[3].ID)
				assert.ErrorIs(t, err, errs.ErrNotFound)

				err = s.products.Delete(ctx, seeded[3].ID)
				assert.ErrorIs(t, err, errs.ErrNotFound)
			})
		})
	}
}

func TestCategoryRepositories(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			tablet := &models.Category{Name: "Tablet"}
			phone := &models.Category{Name: "Phone"}
			require.NoError(t, s.categories.Create(ctx, tablet))
			require.NoError(t, s.categories.Create(ctx, phone))
			assert.True(t, primitive.IsValidObjectID(tablet.ID))

			all, err := s.categories.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Phone", all[0].Name)
			assert.Equal(t, "Tablet", all[1].Name)

			got, err := s.categories.GetByID(ctx, tablet.ID)
			require.NoError(t, err)
			assert.Equal(t, "Tablet", got.Name)

			_, err = s.categories.GetByID(ctx, primitive.NewObjectID().Hex())
			assert.ErrorIs(t, err, errs.ErrNotFound)

			err = s.categories.Create(ctx, &models.Category{Name: "Phone"})
			assert.ErrorIs(t, err, errs.ErrConstraint)
		})
	}
}

func TestUserRepositories(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			user := &models.User{Username: "editor", Email: "editor@example.com", Password: "hashed"}
			require.NoError(t, s.users.Create(ctx, user))
			require.NotEmpty(t, user.ID)

			byName, err := s.users.GetByUsername(ctx, "editor")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)

			byEmail, err := s.users.GetByEmail(ctx, "editor@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)

			byID, err := s.users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "editor", byID.Username)

			_, err = s.users.GetByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, errs.ErrNotFound)

			err = s.users.Create(ctx, &models.User{Username: "editor", Email: "other@example.com", Password: "x"})
			assert.ErrorIs(t, err, errs.ErrConstraint)
		})
	}
}

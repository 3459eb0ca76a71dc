package repositories

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/errs"
	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newCategoryDocument(c *models.Category) (*categoryDocument, error) {
	id, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid category ID %q: %w", c.ID, err)
	}
	return &categoryDocument{ID: id, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}, nil
}

func (d *categoryDocument) model() models.Category {
	return models.Category{ID: d.ID.Hex(), Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// MongoCategoryRepository is a MongoDB implementation of CategoryRepository.
type MongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepository creates a new instance of MongoCategoryRepository.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: db.Collection(CategoriesCollection)}
}

func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", mongoError(err))
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", mongoError(err))
	}
	categories := make([]models.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].model())
	}
	return categories, nil
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("category with ID %s not found: %w", id, errs.ErrNotFound)
	}
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, mongoError(err))
	}
	c := doc.model()
	return &c, nil
}

func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	category.CreatedAt, category.UpdatedAt = now, now

	doc, err := newCategoryDocument(category)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create category: %w", mongoError(err))
	}
	return nil
}

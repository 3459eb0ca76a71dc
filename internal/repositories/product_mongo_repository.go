package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"catalog/internal/errs"
	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the Mongo repositories.
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	UsersCollection      = "users"
)

// productDocument is the stored form of a product. The category is
// embedded as a snapshot taken at write time.
type productDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	Name              string             `bson:"name"`
	Category          categoryDocument   `bson:"category"`
	RemainingQuantity *int               `bson:"remainingQuantity,omitempty"`
	Price             int64              `bson:"price"`
	Chipset           *string            `bson:"chipset,omitempty"`
	ScreenSize        *float64           `bson:"screenSize,omitempty"`
	Memory            *float64           `bson:"memory,omitempty"`
	Storage           *float64           `bson:"storage,omitempty"`
	ThumbnailURL      *string            `bson:"thumbnailUrl,omitempty"`
	ImageURL          *string            `bson:"imageUrl,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func newProductDocument(p *models.Product) (*productDocument, error) {
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID %q: %w", p.ID, err)
	}
	if p.Category == nil {
		return nil, fmt.Errorf("product %s has no category", p.ID)
	}
	cat, err := newCategoryDocument(p.Category)
	if err != nil {
		return nil, err
	}
	return &productDocument{
		ID:                id,
		Name:              p.Name,
		Category:          *cat,
		RemainingQuantity: p.RemainingQuantity,
		Price:             p.Price,
		Chipset:           p.Chipset,
		ScreenSize:        p.ScreenSize,
		Memory:            p.Memory,
		Storage:           p.Storage,
		ThumbnailURL:      p.ThumbnailURL,
		ImageURL:          p.ImageURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

func (d *productDocument) model() models.Product {
	cat := d.Category.model()
	return models.Product{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		CategoryID:        cat.ID,
		Category:          &cat,
		RemainingQuantity: d.RemainingQuantity,
		Price:             d.Price,
		Chipset:           d.Chipset,
		ScreenSize:        d.ScreenSize,
		Memory:            d.Memory,
		Storage:           d.Storage,
		ThumbnailURL:      d.ThumbnailURL,
		ImageURL:          d.ImageURL,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

// productFindQuery builds the Find filter and options for a product page.
// The category term is matched literally as a case-insensitive substring.
func productFindQuery(filter models.ProductFilter) (bson.M, *options.FindOptions) {
	query := bson.M{}
	if filter.Category != "" {
		query["category.name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Category), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	return query, opts
}

// Find retrieves a page of products in insertion order. A category
// filter matches the embedded category name case-insensitively.
func (r *MongoProductRepository) Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query, opts := productFindQuery(filter)
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", mongoError(err))
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", mongoError(err))
	}

	products := make([]models.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].model())
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product with ID %s not found: %w", id, errs.ErrNotFound)
	}

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, mongoError(err))
	}
	p := doc.model()
	return &p, nil
}

// Create inserts a new product, assigning its ID and timestamps.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	product.CreatedAt, product.UpdatedAt = now, now

	doc, err := newProductDocument(product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", mongoError(err))
	}
	return nil
}

// Update replaces the stored document of an existing product.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc, err := newProductDocument(product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", mongoError(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, errs.ErrNotFound)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, errs.ErrNotFound)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", mongoError(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, errs.ErrNotFound)
	}
	return nil
}

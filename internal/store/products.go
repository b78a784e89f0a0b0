package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExtraImage is a secondary product photo with a bilingual caption.
type ExtraImage struct {
	ImageID     *primitive.ObjectID `bson:"imageId,omitempty" json:"imageId,omitempty"`
	Description Localized           `bson:"description" json:"description"`
}

// Product carries denormalized categorySlug/subcategorySlug strings for
// query filtering. They are derived from the English names at write time;
// keeping them consistent with the referenced category is the writer's
// responsibility — there is no foreign-key enforcement.
type Product struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            Localized           `bson:"name" json:"name"`
	Slug            string              `bson:"slug" json:"slug"`
	Description     Localized           `bson:"description" json:"description"`
	Category        Localized           `bson:"category" json:"category"`
	CategorySlug    string              `bson:"categorySlug" json:"categorySlug"`
	Subcategory     Localized           `bson:"subcategory" json:"subcategory"`
	SubcategorySlug string              `bson:"subcategorySlug,omitempty" json:"subcategorySlug,omitempty"`
	ImageID         *primitive.ObjectID `bson:"imageId,omitempty" json:"imageId,omitempty"`
	ExtraImages     []ExtraImage        `bson:"extraImages,omitempty" json:"extraImages,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ImageIDs collects the product's own image references for the deletion
// cascade.
func (p *Product) ImageIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	if p.ImageID != nil {
		ids = append(ids, *p.ImageID)
	}
	for _, e := range p.ExtraImages {
		if e.ImageID != nil {
			ids = append(ids, *e.ImageID)
		}
	}
	return ids
}

type ProductsStore struct {
	col *mongo.Collection
}

func (s *ProductsStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductsStore) List(ctx context.Context) ([]Product, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *ProductsStore) ListByCategorySlug(ctx context.Context, categorySlug string) ([]Product, error) {
	return s.find(ctx, bson.M{"categorySlug": categorySlug},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *ProductsStore) ListBySubcategorySlug(ctx context.Context, categorySlug, subcategorySlug string) ([]Product, error) {
	return s.find(ctx, bson.M{"categorySlug": categorySlug, "subcategorySlug": subcategorySlug},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// Related returns other products in the same category, newest first.
func (s *ProductsStore) Related(ctx context.Context, categorySlug string, exclude primitive.ObjectID, limit int64) ([]Product, error) {
	return s.find(ctx,
		bson.M{"categorySlug": categorySlug, "_id": bson.M{"$ne": exclude}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
}

func (s *ProductsStore) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.getOne(ctx, bson.M{"slug": slug})
}

func (s *ProductsStore) GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

func (s *ProductsStore) getOne(ctx context.Context, filter bson.M) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var product Product
	err := s.col.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductsStore) Create(ctx context.Context, product *Product) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	count, err := s.col.CountDocuments(ctx, bson.M{"slug": product.Slug})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	_, err = s.col.InsertOne(ctx, product)
	return err
}

func (s *ProductsStore) Update(ctx context.Context, product *Product) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":            product.Name,
		"slug":            product.Slug,
		"description":     product.Description,
		"category":        product.Category,
		"categorySlug":    product.CategorySlug,
		"subcategory":     product.Subcategory,
		"subcategorySlug": product.SubcategorySlug,
		"imageId":         product.ImageID,
		"extraImages":     product.ExtraImages,
		"updatedAt":       time.Now().UTC(),
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProductsStore) Delete(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var product Product
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

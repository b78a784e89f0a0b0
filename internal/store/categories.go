package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Benefit is a selling point of a subcategory: an illustration plus a
// bilingual caption.
type Benefit struct {
	ImageID     *primitive.ObjectID `bson:"imageId,omitempty" json:"imageId,omitempty"`
	Description Localized           `bson:"description" json:"description"`
}

// Color is a swatch image available for a subcategory's product line.
type Color struct {
	ImageID *primitive.ObjectID `bson:"imageId,omitempty" json:"imageId,omitempty"`
}

// Subcategory is embedded in its Category document; it has no lifecycle of
// its own. LegacyEn/LegacyAr are flat duplicates written by an older admin
// tool — reads normalize them into Name, new writes leave them empty.
type Subcategory struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name              Localized           `bson:"name" json:"name"`
	LegacyEn          string              `bson:"en,omitempty" json:"-"`
	LegacyAr          string              `bson:"ar,omitempty" json:"-"`
	Slug              string              `bson:"slug" json:"slug"`
	LogoID            *primitive.ObjectID `bson:"logoId,omitempty" json:"logoId,omitempty"`
	Description       Localized           `bson:"description" json:"description"`
	Slogan            Localized           `bson:"slogan" json:"slogan"`
	Benefits          []Benefit           `bson:"benefits,omitempty" json:"benefits,omitempty"`
	Colors            []Color             `bson:"colors,omitempty" json:"colors,omitempty"`
	HardcodedPageSlug string              `bson:"hardcodedPageSlug,omitempty" json:"hardcodedPageSlug,omitempty"`
}

// DisplayName prefers the bilingual name and falls back to the legacy flat
// fields for documents written before the bilingual shape existed.
func (s Subcategory) DisplayName() Localized {
	return s.Name.orFlat(s.LegacyEn, s.LegacyAr)
}

type Category struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          Localized          `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   Localized          `bson:"description" json:"description"`
	Order         int                `bson:"order" json:"order"`
	Subcategories []Subcategory      `bson:"subcategories,omitempty" json:"subcategories,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindSubcategory returns the embedded subcategory with the given slug.
func (c *Category) FindSubcategory(slug string) *Subcategory {
	for i := range c.Subcategories {
		if c.Subcategories[i].Slug == slug {
			return &c.Subcategories[i]
		}
	}
	return nil
}

// ImageIDs collects every image reference owned by the category's
// subcategories (logos, benefit illustrations, color swatches). Used by the
// deletion cascade.
func (c *Category) ImageIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, sub := range c.Subcategories {
		if sub.LogoID != nil {
			ids = append(ids, *sub.LogoID)
		}
		for _, b := range sub.Benefits {
			if b.ImageID != nil {
				ids = append(ids, *b.ImageID)
			}
		}
		for _, cl := range sub.Colors {
			if cl.ImageID != nil {
				ids = append(ids, *cl.ImageID)
			}
		}
	}
	return ids
}

type CategoriesStore struct {
	col *mongo.Collection
}

// normalize folds legacy flat subcategory name fields into the bilingual
// shape so every consumer past the store sees one canonical form.
func (s *CategoriesStore) normalize(c *Category) {
	for i := range c.Subcategories {
		sub := &c.Subcategories[i]
		sub.Name = sub.DisplayName()
		sub.LegacyEn, sub.LegacyAr = "", ""
	}
}

func (s *CategoriesStore) List(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	for i := range categories {
		s.normalize(&categories[i])
	}
	return categories, nil
}

func (s *CategoriesStore) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var category Category
	err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.normalize(&category)
	return &category, nil
}

func (s *CategoriesStore) GetByID(ctx context.Context, id primitive.ObjectID) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var category Category
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.normalize(&category)
	return &category, nil
}

func (s *CategoriesStore) Create(ctx context.Context, category *Category) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	count, err := s.col.CountDocuments(ctx, bson.M{"slug": category.Slug})
	if err != nil {
		return fmt.Errorf("check category slug: %w", err)
	}
	if count > 0 {
		return ErrConflict
	}

	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = category.CreatedAt
	for i := range category.Subcategories {
		if category.Subcategories[i].ID.IsZero() {
			category.Subcategories[i].ID = primitive.NewObjectID()
		}
	}

	_, err = s.col.InsertOne(ctx, category)
	return err
}

func (s *CategoriesStore) Update(ctx context.Context, category *Category) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	for i := range category.Subcategories {
		if category.Subcategories[i].ID.IsZero() {
			category.Subcategories[i].ID = primitive.NewObjectID()
		}
	}

	update := bson.M{"$set": bson.M{
		"name":          category.Name,
		"slug":          category.Slug,
		"description":   category.Description,
		"subcategories": category.Subcategories,
		"updatedAt":     time.Now().UTC(),
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the category and returns the deleted document so callers
// can cascade image deletions.
func (s *CategoriesStore) Delete(ctx context.Context, id primitive.ObjectID) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var category Category
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.normalize(&category)
	return &category, nil
}

// Reorder persists a new display order. Sequential updates, no transaction;
// a partial failure leaves a mixed order that the next reorder repairs.
func (s *CategoriesStore) Reorder(ctx context.Context, ids []primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	for i, id := range ids {
		_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"order": i}})
		if err != nil {
			return fmt.Errorf("reorder category %s: %w", id.Hex(), err)
		}
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Categories interface {
		List(context.Context) ([]Category, error)
		GetBySlug(context.Context, string) (*Category, error)
		GetByID(context.Context, primitive.ObjectID) (*Category, error)
		Create(context.Context, *Category) error
		Update(context.Context, *Category) error
		Delete(context.Context, primitive.ObjectID) (*Category, error)
		Reorder(context.Context, []primitive.ObjectID) error
	}
	Products interface {
		List(context.Context) ([]Product, error)
		ListByCategorySlug(context.Context, string) ([]Product, error)
		ListBySubcategorySlug(context.Context, string, string) ([]Product, error)
		GetBySlug(context.Context, string) (*Product, error)
		GetByID(context.Context, primitive.ObjectID) (*Product, error)
		Related(context.Context, string, primitive.ObjectID, int64) ([]Product, error)
		Create(context.Context, *Product) error
		Update(context.Context, *Product) error
		Delete(context.Context, primitive.ObjectID) (*Product, error)
	}
	Gallery interface {
		List(context.Context) ([]GalleryImage, error)
		ListByCategory(context.Context, string) ([]GalleryImage, error)
		GetByID(context.Context, primitive.ObjectID) (*GalleryImage, error)
		Create(context.Context, *GalleryImage) error
		Update(context.Context, *GalleryImage) error
		Delete(context.Context, primitive.ObjectID) (*GalleryImage, error)
	}
	Messages interface {
		Create(context.Context, *Message) error
		List(context.Context) ([]Message, error)
		MarkRead(context.Context, primitive.ObjectID) error
		Delete(context.Context, primitive.ObjectID) error
	}
	Settings interface {
		Get(context.Context) (*Settings, error)
		Update(context.Context, *Settings) error
		GetHomepage(context.Context) (*HomepageSettings, error)
		UpdateHomepage(context.Context, *HomepageSettings) error
	}
	Images interface {
		Put(context.Context, []byte, string, string) (primitive.ObjectID, error)
		Get(context.Context, primitive.ObjectID) (*Image, error)
		Delete(context.Context, primitive.ObjectID) error
		DeleteMany(context.Context, []primitive.ObjectID) error
	}
}

func NewStorage(db *mongo.Database) Storage {
	return Storage{
		Categories: &CategoriesStore{db.Collection("categories")},
		Products:   &ProductsStore{db.Collection("products")},
		Gallery:    &GalleryStore{db.Collection("gallery")},
		Messages:   &MessagesStore{db.Collection("messages")},
		Settings:   &SettingsStore{db.Collection("settings")},
		Images:     &ImagesStore{db.Collection("images")},
	}
}

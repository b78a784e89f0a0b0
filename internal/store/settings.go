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

// Settings is a singleton document keyed by a fixed _id so upserts always
// hit the same record.
type Settings struct {
	ID           string              `bson:"_id" json:"-"`
	SiteName     Localized           `bson:"siteName" json:"siteName"`
	Description  Localized           `bson:"description" json:"description"`
	Address      Localized           `bson:"address" json:"address"`
	Phone        Localized           `bson:"phone" json:"phone"`
	ContactEmail string              `bson:"contactEmail" json:"contactEmail"`
	ShowGallery  bool                `bson:"showGallery" json:"showGallery"`
	ShowContact  bool                `bson:"showContact" json:"showContact"`
	Locale       string              `bson:"locale" json:"locale"`
	Currency     string              `bson:"currency" json:"currency"`
	Theme        string              `bson:"theme" json:"theme"`
	LogoID       *primitive.ObjectID `bson:"logoId,omitempty" json:"logoId,omitempty"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// HomepageValue is one entry of the "our values" block.
type HomepageValue struct {
	Title       Localized `bson:"title" json:"title"`
	Description Localized `bson:"description" json:"description"`
}

// HomepageSettings holds the narrative text blocks of the homepage.
type HomepageSettings struct {
	ID           string          `bson:"_id" json:"-"`
	Story        Localized       `bson:"story" json:"story"`
	Vision       Localized       `bson:"vision" json:"vision"`
	Mission      Localized       `bson:"mission" json:"mission"`
	FounderQuote Localized       `bson:"founderQuote" json:"founderQuote"`
	Values       []HomepageValue `bson:"values,omitempty" json:"values,omitempty"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

const (
	settingsDocID = "site"
	homepageDocID = "homepage"
)

type SettingsStore struct {
	col *mongo.Collection
}

func (s *SettingsStore) Get(ctx context.Context) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var settings Settings
	err := s.col.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A fresh deployment has no settings yet; defaults are fine.
			return &Settings{ID: settingsDocID, Locale: "en", ShowGallery: true, ShowContact: true}, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsStore) Update(ctx context.Context, settings *Settings) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	settings.ID = settingsDocID
	settings.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, settings, opts)
	return err
}

func (s *SettingsStore) GetHomepage(ctx context.Context) (*HomepageSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var homepage HomepageSettings
	err := s.col.FindOne(ctx, bson.M{"_id": homepageDocID}).Decode(&homepage)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &HomepageSettings{ID: homepageDocID}, nil
		}
		return nil, err
	}
	return &homepage, nil
}

func (s *SettingsStore) UpdateHomepage(ctx context.Context, homepage *HomepageSettings) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	homepage.ID = homepageDocID
	homepage.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": homepageDocID}, homepage, opts)
	return err
}

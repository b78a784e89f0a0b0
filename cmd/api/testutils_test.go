package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tashteeb/internal/cache"
	"tashteeb/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeCategories struct {
	categories []store.Category
}

func (f *fakeCategories) List(context.Context) ([]store.Category, error) {
	return f.categories, nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (*store.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategories) GetByID(_ context.Context, id primitive.ObjectID) (*store.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			// Return a copy so later writes through Update don't mutate the
			// snapshot, matching the real store which decodes a fresh struct.
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategories) Create(_ context.Context, c *store.Category) error {
	for i := range f.categories {
		if f.categories[i].Slug == c.Slug {
			return store.ErrConflict
		}
	}
	c.ID = primitive.NewObjectID()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *store.Category) error {
	for i := range f.categories {
		if f.categories[i].ID == c.ID {
			f.categories[i] = *c
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeCategories) Delete(_ context.Context, id primitive.ObjectID) (*store.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			deleted := f.categories[i]
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategories) Reorder(_ context.Context, ids []primitive.ObjectID) error {
	for order, id := range ids {
		for i := range f.categories {
			if f.categories[i].ID == id {
				f.categories[i].Order = order
			}
		}
	}
	return nil
}

type fakeProducts struct {
	products []store.Product
}

func (f *fakeProducts) List(context.Context) ([]store.Product, error) {
	return f.products, nil
}

func (f *fakeProducts) ListByCategorySlug(_ context.Context, categorySlug string) ([]store.Product, error) {
	var out []store.Product
	for _, p := range f.products {
		if p.CategorySlug == categorySlug {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListBySubcategorySlug(_ context.Context, categorySlug, subcategorySlug string) ([]store.Product, error) {
	var out []store.Product
	for _, p := range f.products {
		if p.CategorySlug == categorySlug && p.SubcategorySlug == subcategorySlug {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetBySlug(_ context.Context, slug string) (*store.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProducts) GetByID(_ context.Context, id primitive.ObjectID) (*store.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProducts) Related(_ context.Context, categorySlug string, exclude primitive.ObjectID, limit int64) ([]store.Product, error) {
	var out []store.Product
	for _, p := range f.products {
		if p.CategorySlug == categorySlug && p.ID != exclude && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *store.Product) error {
	for i := range f.products {
		if f.products[i].Slug == p.Slug {
			return store.ErrConflict
		}
	}
	p.ID = primitive.NewObjectID()
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *store.Product) error {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = *p
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) (*store.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			deleted := f.products[i]
			f.products = append(f.products[:i], f.products[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeGallery struct {
	images []store.GalleryImage
}

func (f *fakeGallery) List(context.Context) ([]store.GalleryImage, error) {
	return f.images, nil
}

func (f *fakeGallery) ListByCategory(_ context.Context, category string) ([]store.GalleryImage, error) {
	var out []store.GalleryImage
	for _, g := range f.images {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGallery) GetByID(_ context.Context, id primitive.ObjectID) (*store.GalleryImage, error) {
	for i := range f.images {
		if f.images[i].ID == id {
			return &f.images[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeGallery) Create(_ context.Context, g *store.GalleryImage) error {
	g.ID = primitive.NewObjectID()
	f.images = append(f.images, *g)
	return nil
}

func (f *fakeGallery) Update(_ context.Context, g *store.GalleryImage) error {
	for i := range f.images {
		if f.images[i].ID == g.ID {
			f.images[i] = *g
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeGallery) Delete(_ context.Context, id primitive.ObjectID) (*store.GalleryImage, error) {
	for i := range f.images {
		if f.images[i].ID == id {
			deleted := f.images[i]
			f.images = append(f.images[:i], f.images[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeMessages struct {
	messages []store.Message
}

func (f *fakeMessages) Create(_ context.Context, m *store.Message) error {
	m.ID = primitive.NewObjectID()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessages) List(context.Context) ([]store.Message, error) {
	return f.messages, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id primitive.ObjectID) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeMessages) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeSettings struct {
	settings *store.Settings
	homepage *store.HomepageSettings
}

func (f *fakeSettings) Get(context.Context) (*store.Settings, error) {
	if f.settings == nil {
		return &store.Settings{Locale: "en", ShowGallery: true, ShowContact: true}, nil
	}
	return f.settings, nil
}

func (f *fakeSettings) Update(_ context.Context, s *store.Settings) error {
	f.settings = s
	return nil
}

func (f *fakeSettings) GetHomepage(context.Context) (*store.HomepageSettings, error) {
	if f.homepage == nil {
		return &store.HomepageSettings{}, nil
	}
	return f.homepage, nil
}

func (f *fakeSettings) UpdateHomepage(_ context.Context, h *store.HomepageSettings) error {
	f.homepage = h
	return nil
}

// fakeImages records deletions so tests can assert the cascade.
type fakeImages struct {
	stored  map[primitive.ObjectID]*store.Image
	deleted []primitive.ObjectID
}

func newFakeImages() *fakeImages {
	return &fakeImages{stored: make(map[primitive.ObjectID]*store.Image)}
}

func (f *fakeImages) Put(_ context.Context, data []byte, contentType, thumbURL string) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	f.stored[id] = &store.Image{
		ID:          id,
		Data:        primitive.Binary{Subtype: 0x00, Data: data},
		ContentType: contentType,
		ThumbURL:    thumbURL,
	}
	return id, nil
}

func (f *fakeImages) Get(_ context.Context, id primitive.ObjectID) (*store.Image, error) {
	img, ok := f.stored[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return img, nil
}

func (f *fakeImages) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.stored[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.stored, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeImages) DeleteMany(_ context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		delete(f.stored, id)
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := zap.NewNop().Sugar()
	return &application{
		config: config{
			addr: ":0",
			env:  "test",
			auth: authConfig{basic: basicConfig{user: "admin", pass: "secret"}},
		},
		store: store.Storage{
			Categories: &fakeCategories{},
			Products:   &fakeProducts{},
			Gallery:    &fakeGallery{},
			Messages:   &fakeMessages{},
			Settings:   &fakeSettings{},
			Images:     newFakeImages(),
		},
		logger: logger,
		cache:  cache.New(nil, logger),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected response code %d, got %d", expected, actual)
	}
}

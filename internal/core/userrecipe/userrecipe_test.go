package userrecipe

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-finder/internal/core/image"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewGormStore(db)
}

func seed(t *testing.T, s *GormStore, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := s.Create(context.Background(), NewRecipe{
			Name:         name,
			Instructions: "Cook.",
			Ingredients:  []recipe.Ingredient{{Name: "salt", Measure: "1 tsp"}},
			Tags:         []string{"home"},
			AuthorID:     "u-1",
			AuthorName:   "Ada",
		})
		require.NoError(t, err)
	}
}

func TestGormStore_PrefixIsCaseSensitive(t *testing.T) {
	s := newGormStore(t)
	seed(t, s, "Chicken Curry", "Chicken Soup", "chicken wings", "Beef Stew")

	got, err := s.FindByNamePrefix(context.Background(), "Chicken")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Chicken Curry", got[0].Name)
	assert.Equal(t, "Chicken Soup", got[1].Name)
	assert.Equal(t, recipe.SourceUserSubmitted, got[0].Source)
	assert.Equal(t, []recipe.Ingredient{{Name: "salt", Measure: "1 tsp"}}, got[0].Ingredients)
	assert.Equal(t, []string{"home"}, got[0].Tags)
	require.NotNil(t, got[0].Author)
	assert.Equal(t, "Ada", got[0].Author.Name)

	got, err = s.FindByNamePrefix(context.Background(), "Soup")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/userRecipes", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "Pie", r.URL.Query().Get("startAt"))
		assert.Equal(t, "Pie"+PrefixCeiling, r.URL.Query().Get("endAt"))
		_, _ = w.Write([]byte(`{"documents":[{"id":"d1","data":{"name":"Pie","tags":"sweet, baked","ingredients":[{"name":"apple","measure":"3"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	s := NewSessionStore(config.UserStoreConfig{SessionBaseURL: srv.URL, Timeout: time.Second})

	_, err := s.FindByNamePrefix(context.Background(), "Pie")
	assert.ErrorIs(t, err, ErrNoSession)

	ctx := WithSession(context.Background(), Session{Token: "user-token"})
	got, err := s.FindByNamePrefix(ctx, "Pie")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, []string{"sweet", "baked"}, got[0].Tags)
}

type stubStore struct {
	name string
	err  error
}

func (s *stubStore) FindByNamePrefix(ctx context.Context, prefix string) ([]recipe.Recipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []recipe.Recipe{{Summary: recipe.Summary{Name: s.name}}}, nil
}

func TestSelector(t *testing.T) {
	elevated := &stubStore{name: "from-elevated"}
	session := &stubStore{name: "from-session"}
	sel := NewSelector(elevated, session)

	got := sel.FindByNamePrefix(context.Background(), "x")
	require.Len(t, got, 1)
	assert.Equal(t, "from-elevated", got[0].Name)

	ctx := WithSession(context.Background(), Session{Token: "t"})
	got = sel.FindByNamePrefix(ctx, "x")
	require.Len(t, got, 1)
	assert.Equal(t, "from-session", got[0].Name)

	// 空 token 不算 session
	got = sel.FindByNamePrefix(WithSession(context.Background(), Session{}), "x")
	assert.Equal(t, "from-elevated", got[0].Name)
}

func TestSelector_FailSoft(t *testing.T) {
	assert.Empty(t, NewSelector(nil, nil).FindByNamePrefix(context.Background(), "x"))
	assert.Empty(t, NewSelector(&stubStore{err: errors.New("down")}, nil).FindByNamePrefix(context.Background(), "x"))
}

type fakeUploader struct {
	object string
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	f.object = objectName
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/" + objectName, nil
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestSubmitter_Submit(t *testing.T) {
	store := newGormStore(t)
	up := &fakeUploader{}
	s := NewSubmitter(store, up, image.NewService(1<<20))
	s.newID = func() string { return "fixed-uuid" }

	res := s.Submit(context.Background(), Submission{
		AuthorID:     "u-9",
		AuthorName:   "Grace",
		Name:         "Lemon Tart",
		Instructions: "Bake.",
		Ingredients:  []recipe.Ingredient{{Name: "lemon", Measure: "2"}, {Name: " ", Measure: "1"}},
		Image:        &ImageFile{Filename: "C:\\photos\\tart.png", Data: pngData(t)},
	})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Recipe submitted successfully!", res.Message)
	assert.Equal(t, "user-recipes/u-9/fixed-uuid-tart.png", up.object)

	got, err := store.FindByNamePrefix(context.Background(), "Lemon")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, res.ImageURL, got[0].ImageURL)
	assert.Len(t, got[0].Ingredients, 1)
}

func TestSubmitter_Failures(t *testing.T) {
	store := newGormStore(t)
	s := NewSubmitter(store, &fakeUploader{}, image.NewService(1<<20))
	ctx := context.Background()

	res := s.Submit(ctx, Submission{Name: "X", AuthorID: "u"})
	assert.False(t, res.Success)
	assert.Equal(t, "Image is required.", res.Message)
	assert.Equal(t, FailureInput, res.Failure)

	res = s.Submit(ctx, Submission{Name: "X", AuthorID: "u", Image: &ImageFile{Filename: "a.png"}})
	assert.Equal(t, "Image is required.", res.Message)

	res = s.Submit(ctx, Submission{Name: "X", AuthorID: "u", Image: &ImageFile{Filename: "a.txt", Data: []byte("text")}})
	assert.False(t, res.Success)
	assert.Equal(t, "Unsupported image format", res.Message)
	assert.Equal(t, FailureInput, res.Failure)

	failing := NewSubmitter(store, &fakeUploader{err: errors.New("denied")}, image.NewService(1<<20))
	res = failing.Submit(ctx, Submission{Name: "X", AuthorID: "u", Image: &ImageFile{Filename: "a.png", Data: pngData(t)}})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to submit recipe. Please try again.", res.Message)
	assert.Equal(t, FailureUpload, res.Failure)

	broken := NewSubmitter(failingWriter{}, &fakeUploader{}, image.NewService(1<<20))
	res = broken.Submit(ctx, Submission{Name: "X", AuthorID: "u", Image: &ImageFile{Filename: "a.png", Data: pngData(t)}})
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to submit recipe. Please try again.", res.Message)
	assert.Equal(t, FailureStore, res.Failure)
}

type failingWriter struct{}

func (failingWriter) Create(context.Context, NewRecipe) (string, error) {
	return "", errors.New("disk full")
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "user-recipes/a/id-photo.jpg", ObjectName("a", "id", "../../photo.jpg"))
	assert.Equal(t, "user-recipes/a/id-image", ObjectName("a", "id", ""))
}

package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/userrecipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	result    search.Result
	err       error
	trending  []recipe.Recipe
	detail    *recipe.Recipe
	detailErr error

	gotQuery  string
	gotMode   recipe.Mode
	gotID     string
	gotSource recipe.Source
}

func (f *fakeSearcher) Search(_ context.Context, query string, mode recipe.Mode) (search.Result, error) {
	f.gotQuery, f.gotMode = query, mode
	return f.result, f.err
}

func (f *fakeSearcher) Trending(context.Context) ([]recipe.Recipe, error) {
	return f.trending, f.err
}

func (f *fakeSearcher) Details(_ context.Context, id string, source recipe.Source) (*recipe.Recipe, error) {
	f.gotID, f.gotSource = id, source
	return f.detail, f.detailErr
}

type fakeSubmitter struct {
	got    userrecipe.Submission
	result userrecipe.Result
}

func (f *fakeSubmitter) Submit(_ context.Context, sub userrecipe.Submission) userrecipe.Result {
	f.got = sub
	return f.result
}

func setup(s *fakeSearcher, sub *fakeSubmitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, sub, false)
	r := gin.New()
	r.GET("/recipes/search", h.HandleSearch)
	r.GET("/recipes/trending", h.HandleTrending)
	r.GET("/recipes/:id", h.HandleDetails)
	r.POST("/recipes", h.HandleSubmit)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func teriyaki() recipe.Recipe {
	return recipe.Recipe{
		Summary:      recipe.Summary{ID: "52772", Name: "Teriyaki Chicken", Source: recipe.SourcePublicAPI},
		Instructions: "Bake.",
	}
}

func TestHandleSearch(t *testing.T) {
	s := &fakeSearcher{result: search.Result{
		Recipes: []recipe.Listing{recipe.FromRecipe(teriyaki())},
		Source:  recipe.SourcePublicAPI,
	}}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/search?q=%20teriyaki%20&mode=dish", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teriyaki", s.gotQuery)
	assert.Equal(t, recipe.ModeDish, s.gotMode)

	var resp struct {
		Recipes []map[string]any `json:"recipes"`
		Source  string           `json:"source"`
		Message string           `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PublicAPI", resp.Source)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "full", resp.Recipes[0]["kind"])
	assert.Empty(t, resp.Message)
}

func TestHandleSearch_EmptyResultHasMessage(t *testing.T) {
	s := &fakeSearcher{result: search.Result{Source: recipe.SourcePublicAPI}}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/search?q=zzz&mode=ingredient", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recipe.ModeIngredient, s.gotMode)
	assert.JSONEq(t, `{"recipes":[],"source":"PublicAPI","message":"No recipes found. Try a different search."}`, w.Body.String())
}

func TestHandleSearch_Validation(t *testing.T) {
	r := setup(&fakeSearcher{}, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInvalidRequest)

	w = do(r, httptest.NewRequest(http.MethodGet, "/recipes/search?q=x&mode=flavor", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearch_Failure(t *testing.T) {
	s := &fakeSearcher{err: common.ErrSearchFailed.Wrap(errors.New("upstream"))}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/search?q=x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"SEARCH_FAILED","error":"Search failed. Please try again later."}`, w.Body.String())
}

func TestHandleTrending(t *testing.T) {
	s := &fakeSearcher{trending: []recipe.Recipe{teriyaki()}}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/trending", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Teriyaki Chicken")
}

func TestHandleDetails(t *testing.T) {
	rec := teriyaki()
	s := &fakeSearcher{detail: &rec}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/52772", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "52772", s.gotID)
	assert.Equal(t, recipe.SourcePublicAPI, s.gotSource)
	assert.Contains(t, w.Body.String(), `"name":"Teriyaki Chicken"`)
}

func TestHandleDetails_NullAndSources(t *testing.T) {
	s := &fakeSearcher{}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/ai-x?source=GeneratedAI", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, recipe.SourceGeneratedAI, s.gotSource)
	assert.JSONEq(t, `{"recipe":null}`, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, "/recipes/1?source=somewhere", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDetails_Upstream(t *testing.T) {
	s := &fakeSearcher{detailErr: common.ErrDetailsUnavailable.Wrap(errors.New("502"))}
	r := setup(s, &fakeSubmitter{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/recipes/1", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "tart.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/recipes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleSubmit(t *testing.T) {
	sub := &fakeSubmitter{result: userrecipe.Result{Success: true, Message: "Recipe submitted successfully!", ID: "r-1"}}
	r := setup(&fakeSearcher{}, sub)

	req := multipartRequest(t, map[string]string{
		"authorId":     "u-1",
		"authorName":   "Ada",
		"name":         "Lemon Tart",
		"instructions": "Mix.\nBake.",
		"ingredients":  `[{"name":"lemon","measure":"2"},{"name":"sugar","measure":"100g"}]`,
		"tags":         "dessert, citrus ,",
	}, []byte("\x89PNG fake"))

	w := do(r, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r-1"`)

	assert.Equal(t, "u-1", sub.got.AuthorID)
	assert.Equal(t, "Lemon Tart", sub.got.Name)
	assert.Equal(t, []string{"dessert", "citrus"}, sub.got.Tags)
	require.Len(t, sub.got.Ingredients, 2)
	assert.Equal(t, recipe.Ingredient{Name: "sugar", Measure: "100g"}, sub.got.Ingredients[1])
	require.NotNil(t, sub.got.Image)
	assert.Equal(t, "tart.png", sub.got.Image.Filename)
	assert.Equal(t, []byte("\x89PNG fake"), sub.got.Image.Data)
}

func TestHandleSubmit_Failures(t *testing.T) {
	sub := &fakeSubmitter{result: userrecipe.Result{Message: "Image is required."}}
	r := setup(&fakeSearcher{}, sub)

	w := do(r, multipartRequest(t, map[string]string{"name": "Tart"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, sub.got.Image)
	assert.JSONEq(t, `{"success":false,"message":"Image is required."}`, w.Body.String())

	w = do(r, multipartRequest(t, map[string]string{"ingredients": "lemon, sugar"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ingredients must be a JSON array")
}

func TestHandleSubmit_ServerFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure userrecipe.Failure
		want    int
	}{
		{"upload", userrecipe.FailureUpload, http.StatusBadGateway},
		{"store", userrecipe.FailureStore, http.StatusInternalServerError},
		{"input", userrecipe.FailureInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{result: userrecipe.Result{Message: "Failed to submit recipe. Please try again.", Failure: tt.failure}}
			r := setup(&fakeSearcher{}, sub)

			w := do(r, multipartRequest(t, map[string]string{"name": "Tart"}, []byte("\x89PNG fake")))
			assert.Equal(t, tt.want, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Failed to submit recipe. Please try again."}`, w.Body.String())
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags(" a ,, b "))
}

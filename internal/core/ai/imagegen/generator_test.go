package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeImages struct {
	url    string
	err    error
	prompt string
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.url, f.err
}

func TestGenerate(t *testing.T) {
	f := &fakeImages{url: "https://img.example/ramen.png"}
	g := New(f)

	assert.Equal(t, "https://img.example/ramen.png", g.Generate(context.Background(), " Ramen "))
	assert.Equal(t, "A delicious, professionally photographed Ramen, centered on a plate, ready to eat.", f.prompt)
}

func TestGenerate_SwallowsErrors(t *testing.T) {
	g := New(&fakeImages{err: errors.New("model overloaded")})
	assert.Equal(t, "", g.Generate(context.Background(), "Ramen"))
}

func TestGenerate_NoBackend(t *testing.T) {
	assert.Equal(t, "", New(nil).Generate(context.Background(), "Ramen"))
}

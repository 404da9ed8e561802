package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewImage(t *testing.T) {
	img := NewImage("not a url", "restaurant_logo")

	assert.Equal(t, ElementImage, img.Type)
	assert.Equal(t, "not a url", img.URL)
	assert.Equal(t, "restaurant_logo", img.Name)
}

func TestOutbound_Images(t *testing.T) {
	out := Outbound{
		Content: "hi",
		Elements: []Element{
			{Type: "file", Name: "menu.pdf", URL: "https://example.com/menu.pdf"},
			NewImage("https://example.com/logo.png", "logo"),
		},
	}

	images := out.Images()
	assert.Len(t, images, 1)
	assert.Equal(t, "logo", images[0].Name)
}

func TestOutbound_Images_None(t *testing.T) {
	assert.Empty(t, Outbound{Content: "hi"}.Images())
}

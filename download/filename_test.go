package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasImageExt(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPEG", "a.png", "a.Gif", "a.bmp", "a.webp"} {
		assert.True(t, HasImageExt(name), name)
	}
	for _, name := range []string{"a", "a.txt", "a.png.exe", "png", "a.tiff"} {
		assert.False(t, HasImageExt(name), name)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Photo!.PNG", "My_Photo_.PNG"},
		{"plain-name_1.jpg", "plain-name_1.jpg"},
		{"__a  b__.png", "a_b_.png"},
		{"café.png", "caf_.png"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestURLToFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/path/My Photo!.PNG", "My_Photo_.PNG"},
		{"https://example.com/path/My%20Photo%21.PNG", "My_Photo_.PNG"},
		{"https://example.com/img/cat.jpg?size=large#top", "cat.jpg"},
		{"https://example.com/img/cat", ""},
		{"https://example.com/img/.hidden.png", ""},
		{"https://example.com/img/cat.png/", ""},
		{"https://example.com/", ""},
		{"https://example.com", ""},
		{"https://example.com/!!.png", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, URLToFilename(tt.url), "url %q", tt.url)
	}
}

func TestResolveFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		desired string
		format  string
		want    string
	}{
		{"desired without extension", "https://example.com/x.png", "vacation", "jpeg", "vacation.jpeg"},
		{"desired with extension", "https://example.com/x.png", "vacation.JPG", "png", "vacation.JPG"},
		{"desired with foreign extension", "https://example.com/x.png", "notes.txt", "gif", "notes.txt.gif"},
		{"unusable desired falls through", "https://example.com/x.png", "..", "png", "x.png"},
		{"from url", "https://example.com/path/My Photo!.PNG", "", "png", "My_Photo_.PNG"},
		{"default", "https://example.com/render?id=3", "", "webp", "pixora_image.webp"},
		{"default unknown format", "https://example.com/render", "", "", "pixora_image.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFilename(tt.url, tt.desired, tt.format))
		})
	}
}

func TestResolveFilenameFlattensDesiredPath(t *testing.T) {
	name := ResolveFilename("https://example.com/x.png", "../../etc/evil", "png")

	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, `\`)
	assert.True(t, HasImageExt(name), name)
}

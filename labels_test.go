package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "jpg", file: "photo.jpg", want: true},
		{name: "bmp", file: "scan.bmp", want: true},
		{name: "png", file: "shot.png", want: true},
		{name: "uppercase extension", file: "PHOTO.JPG", want: true},
		{name: "mixed case extension", file: "photo.Png", want: true},

		{name: "jpeg not on allow-list", file: "photo.jpeg", want: false},
		{name: "gif", file: "anim.gif", want: false},
		{name: "text file", file: "notes.txt", want: false},
		{name: "no extension", file: "README", want: false},
		{name: "dotfile", file: ".hidden", want: false},
		{name: "extension only counts at the end", file: "photo.jpg.bak", want: false},
		{name: "category label name", file: "0.Panoramic-landscape", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, isImageFile(tc.file))
		})
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	require.Len(t, categories, 7)

	set := getCategorySet()
	require.Len(t, set, len(categories))
	for i, label := range categories {
		assert.True(t, set[label], "category %d missing from set", i)
	}
}

func TestGetIgnoreMap(t *testing.T) {
	t.Parallel()

	ignore := getIgnoreMap()
	assert.True(t, ignore[".DS_Store"])
	assert.True(t, ignore["$RECYCLE.BIN"])
	assert.False(t, ignore["photo.jpg"])
}

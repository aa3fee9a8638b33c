package main

import (
	"path/filepath"
	"strings"
)

// Litton's seven visual-landscape categories. The order is fixed: the
// classifier's output vector, the report label numbers, and the category
// folder names all follow it.
var categories = []string{
	"0.Panoramic-landscape",
	"1.Feature-landscape",
	"2.Detail-landscape",
	"3.Enclosed-landscape",
	"4.Focal-landscape",
	"5.Ephemeral-landscape",
	"6.Canopied-landscape",
}

// modelTag identifies the trained model in success report filenames.
const modelTag = "Litton-7type-visual-landscape"

// imageExtensions is the allow-list of recognized image file extensions.
var imageExtensions = []string{".jpg", ".bmp", ".png"}

// isImageFile checks the filename's extension against the full allow-list.
// An entry is eligible when its extension matches at least one allowed
// extension; the comparison is case-insensitive.
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// getCategorySet returns the category names as a map for efficient lookups
// when filtering folder entries.
func getCategorySet() map[string]bool {
	set := make(map[string]bool, len(categories))
	for _, label := range categories {
		set[label] = true
	}
	return set
}

// Generates a map containing the names of directories and files that should
// be ignored while scanning folders. The keys of the map are the names to be
// ignored, and the values are all set to true for efficient lookups.
func getIgnoreMap() map[string]bool {
	ignoreNames := []string{
		"$RECYCLE.BIN",
		".Spotlight-V100",
		"System Volume Information",
		".fseventsd",
		".Trashes",
		".DS_Store",
	}

	ignoreMap := make(map[string]bool)
	for _, name := range ignoreNames {
		ignoreMap[name] = true
	}

	return ignoreMap
}

package core

import (
	"testing"
)

func TestDedupKey(t *testing.T) {
	fileItem := &Item{Path: "/data/Config", Name: "Config", Kind: KindFile}
	folderItem := &Item{Path: "/data/Config.d", Name: "Config", Kind: KindFolder}

	if fileItem.DedupKey() == folderItem.DedupKey() {
		t.Fatal("items of different kinds sharing a name must not collide")
	}

	shortcutA := &Item{Path: "/desktop/Chrome.lnk", Name: "Chrome", Kind: KindApplication}
	shortcutB := &Item{Path: "/menu/chrome.lnk", Name: "chrome", Kind: KindApplication}

	if shortcutA.DedupKey() != shortcutB.DedupKey() {
		t.Fatal("dedup key must be case-insensitive on the display name")
	}

	padded := &Item{Path: "/x", Name: "  Chrome ", Kind: KindApplication}
	if padded.DedupKey() != shortcutA.DedupKey() {
		t.Fatal("dedup key must ignore surrounding whitespace")
	}
}

func TestItemKindPluggable(t *testing.T) {
	pluggable := []ItemKind{KindApplication, KindCommand, KindBookmark, KindStoreApp}
	for _, k := range pluggable {
		if !k.Pluggable() {
			t.Errorf("%s should be pluggable", k)
		}
	}

	filesystem := []ItemKind{KindFile, KindFolder, KindScript}
	for _, k := range filesystem {
		if k.Pluggable() {
			t.Errorf("%s should not be pluggable", k)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindApplication.String() != "application" {
		t.Errorf("unexpected name %q", KindApplication.String())
	}
	if ItemKind(42).String() != "unknown" {
		t.Errorf("unexpected name %q", ItemKind(42).String())
	}
}

package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ghuser/stockroom/services/inventory/domain/models"
)

func testPhotoURL(id int64) string {
	return fmt.Sprintf("/inventory/%d/photo", id)
}

func TestNewItemView_WithPhoto(t *testing.T) {
	item := &models.Item{ID: 3, Name: "Drill", Description: "cordless", PhotoRef: "abc.jpg"}

	v := NewItemView(item, testPhotoURL)
	if v.Photo == nil || *v.Photo != "/inventory/3/photo" {
		t.Errorf("unexpected photo url: %v", v.Photo)
	}
	if v.Name != "Drill" || v.Description != "cordless" || v.ID != 3 {
		t.Errorf("unexpected view: %+v", v)
	}
}

func TestNewItemView_WithoutPhoto(t *testing.T) {
	item := &models.Item{ID: 1, Name: "Saw"}

	v := NewItemView(item, testPhotoURL)
	if v.Photo != nil {
		t.Errorf("expected null photo, got %q", *v.Photo)
	}

	// The photo key must be present and null on the wire, not omitted.
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"photo":null`) {
		t.Errorf("expected explicit null photo in %s", data)
	}
}

func TestNewSearchItemView_OmitsPhotoField(t *testing.T) {
	item := &models.Item{ID: 1, Name: "Drill", PhotoRef: "abc.jpg"}

	data, err := json.Marshal(NewSearchItemView(item, false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "photo") {
		t.Errorf("search view leaked a photo field: %s", data)
	}
}

func TestNewSearchItemView_Hints(t *testing.T) {
	withPhoto := &models.Item{ID: 1, Name: "Drill", Description: "cordless", PhotoRef: "abc.jpg"}
	v := NewSearchItemView(withPhoto, true)
	if v.Description != "cordless [Photo: abc.jpg]" {
		t.Errorf("unexpected hinted description: %q", v.Description)
	}

	noPhoto := &models.Item{ID: 2, Name: "Saw", Description: "hand saw"}
	v = NewSearchItemView(noPhoto, true)
	if !strings.HasSuffix(v.Description, "[No photo available]") {
		t.Errorf("expected no-photo hint suffix, got %q", v.Description)
	}

	// Hint is display-only; the item itself is untouched.
	if noPhoto.Description != "hand saw" {
		t.Errorf("view mutated the item description: %q", noPhoto.Description)
	}
}

func TestNewSearchItemView_NoHint(t *testing.T) {
	item := &models.Item{ID: 1, Name: "Drill", Description: "cordless", PhotoRef: "abc.jpg"}
	v := NewSearchItemView(item, false)
	if v.Description != "cordless" {
		t.Errorf("description changed without hint: %q", v.Description)
	}
}

func TestNewItemViews_PreservesOrder(t *testing.T) {
	items := []*models.Item{
		{ID: 1, Name: "Saw"},
		{ID: 2, Name: "Drill", PhotoRef: "x.jpg"},
	}
	views := NewItemViews(items, testPhotoURL)
	if len(views) != 2 || views[0].ID != 1 || views[1].ID != 2 {
		t.Errorf("unexpected views: %+v", views)
	}
}

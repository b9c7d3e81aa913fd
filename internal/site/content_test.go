package site

import (
	"encoding/json"
	"testing"
)

func TestDefaultContentIsComplete(t *testing.T) {
	content := Default()

	if content.Hero.Title == "" || content.Hero.Tagline == "" || content.Hero.Intro == "" {
		t.Error("hero section incomplete")
	}
	if len(content.About.Paragraphs) == 0 {
		t.Error("about section has no paragraphs")
	}
	if len(content.Services.Items) < 4 {
		t.Errorf("services list suspiciously short: %d items", len(content.Services.Items))
	}
	if len(content.Contact) == 0 {
		t.Error("contact section empty")
	}
	for _, c := range content.Contact {
		if c.URL == "" || c.Label == "" || c.Kind == "" {
			t.Errorf("incomplete contact entry: %+v", c)
		}
	}
}

func TestContentRoundTripsAsJSON(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Content
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Hero.Title != Default().Hero.Title {
		t.Error("hero title did not survive the round trip")
	}
}

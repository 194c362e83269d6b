package archive

import "testing"

func TestParseMetadata(t *testing.T) {
	data := []byte(`{
		"info": {"locale": "se", "title": ["North Sami"], "description": "test", "producer": "coregx"},
		"acceptor": {"type": "general", "id": "acceptor.default.hfst", "title": ["lexicon"], "description": ""},
		"errmodel": {"id": "errmodel.default.hfst", "title": ["errors"], "description": ""}
	}`)

	m, err := ParseMetadata(data)
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if m.Info.Locale != "se" {
		t.Errorf("Info.Locale = %q, want %q", m.Info.Locale, "se")
	}
	if m.Acceptor.ID != "acceptor.default.hfst" {
		t.Errorf("Acceptor.ID = %q, want %q", m.Acceptor.ID, "acceptor.default.hfst")
	}
	if m.Errmodel.ID != "errmodel.default.hfst" {
		t.Errorf("Errmodel.ID = %q, want %q", m.Errmodel.ID, "errmodel.default.hfst")
	}
}

func TestParseMetadata_InvalidJSON(t *testing.T) {
	_, err := ParseMetadata([]byte(`not json`))
	if err == nil {
		t.Fatal("ParseMetadata(invalid) = nil error, want error")
	}
	memberErr, ok := err.(*MemberError)
	if !ok || memberErr.Member != "metadata" {
		t.Errorf("ParseMetadata(invalid) error = %v, want *MemberError{Member: \"metadata\"}", err)
	}
}

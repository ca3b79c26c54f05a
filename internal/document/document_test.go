package document

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestKeywords_JSON(t *testing.T) {
	k := make(Keywords)
	k.Add("Spectral clustering")
	k.Add("Eigenvectors")
	k.Add("Eigenvectors")
	k.Add("")

	data, err := json.Marshal(k)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `["Eigenvectors","Spectral clustering"]` {
		t.Errorf("json.Marshal() = %s", data)
	}

	var back Keywords
	if err := json.Unmarshal([]byte(`["b","a","b"]`), &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(back.Sorted(), want) {
		t.Errorf("Sorted() = %q, want %q", back.Sorted(), want)
	}
	if !back.Has("a") || back.Has("c") {
		t.Errorf("Has() wrong for %v", back)
	}
}

func TestKeywords_EmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(Keywords{})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("json.Marshal() = %s, want []", data)
	}
}

func TestRef_CitationKey(t *testing.T) {
	tests := []struct {
		target string
		want   string
		wantOK bool
	}{
		{"#b12", "b12", true},
		{"#", "", false},
		{"b12", "", false},
		{"", "", false},
		{"https://example.org", "", false},
	}
	for _, tt := range tests {
		got, ok := Ref{Target: tt.target}.CitationKey()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CitationKey(%q) = %q, %v, want %q, %v", tt.target, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRef_Span(t *testing.T) {
	text := "see [1] here"
	if got := (Ref{Start: 4, End: 7}).Span(text); got != "[1]" {
		t.Errorf("Span() = %q, want [1]", got)
	}
	if got := (Ref{Start: 4, End: 40}).Span(text); got != "" {
		t.Errorf("Span() out of range = %q, want empty", got)
	}
}

func TestDate_String(t *testing.T) {
	tests := []struct {
		d    Date
		want string
	}{
		{Date{Year: "2019"}, "2019"},
		{Date{Year: "2019", Month: "03"}, "2019-03"},
		{Date{Year: "2019", Month: "03", Day: "07"}, "2019-03-07"},
		{Date{Year: "2019", Day: "07"}, "2019"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDocument_Text(t *testing.T) {
	doc := Document{
		Abstract: &Section{Title: "Abstract", Paragraphs: []RefText{{Text: "Short."}}},
		Sections: []Section{
			{Title: "Intro", Paragraphs: []RefText{{Text: "One."}, {Text: "Two."}}},
			{Title: "Empty"},
			{Title: "End", Paragraphs: []RefText{{Text: "Three."}}},
		},
	}
	if got, want := doc.Text(), "Short.\n\nOne.\nTwo.\n\nThree."; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestPersonName_String(t *testing.T) {
	if got := (PersonName{FirstName: "Ada", Surname: "Lovelace"}).String(); got != "Ada Lovelace" {
		t.Errorf("String() = %q", got)
	}
	if got := (PersonName{Surname: "Knuth"}).String(); got != "Knuth" {
		t.Errorf("String() = %q", got)
	}
}

func TestDocument_JSONShape(t *testing.T) {
	doc := Document{
		Sections:  []Section{},
		Keywords:  Keywords{},
		Citations: map[string]Citation{},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"abstract", "sections", "bibliography", "keywords", "citations"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("serialized document lacks %q: %s", key, data)
		}
	}
	if string(fields["abstract"]) != "null" {
		t.Errorf("abstract = %s, want null", fields["abstract"])
	}
}

package css

import (
	"errors"
	"reflect"
	"testing"
)

func prop(key, value string) []Property {
	return []Property{{Key: key, Value: value}}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tree []*Block
		want string
	}{
		{
			name: "empty tree",
			tree: nil,
			want: "",
		},
		{
			name: "single rule",
			tree: []*Block{{Selectors: []string{"div"}, Properties: []Property{
				{Key: "color", Value: "red"},
				{Key: "margin", Value: "0"},
			}}},
			want: "div{color:red;margin:0}",
		},
		{
			name: "block without properties emits nothing",
			tree: []*Block{{Selectors: []string{"div"}}},
			want: "",
		},
		{
			name: "descendant nesting",
			tree: []*Block{{
				Selectors: []string{"div"},
				Children:  []*Block{{Selectors: []string{"span"}, Properties: prop("color", "red")}},
			}},
			want: "div span{color:red}",
		},
		{
			name: "ampersand nesting",
			tree: []*Block{{
				Selectors: []string{"a"},
				Children:  []*Block{{Selectors: []string{"&:hover"}, Properties: prop("color", "blue")}},
			}},
			want: "a:hover{color:blue}",
		},
		{
			name: "cartesian product",
			tree: []*Block{{
				Selectors: []string{"h1", "h2"},
				Children:  []*Block{{Selectors: []string{"a", "&.x"}, Properties: prop("color", "red")}},
			}},
			want: "h1 a,h2 a,h1.x,h2.x{color:red}",
		},
		{
			name: "responsive media query",
			tree: []*Block{{
				Selectors: []string{"div"},
				Children: []*Block{{
					Selectors:  []string{"@media screen and(min-width:576px)"},
					Properties: prop("color", "red"),
				}},
			}},
			want: "@media screen and(min-width:576px){div{color:red}}",
		},
		{
			name: "color scheme merged into responsive query",
			tree: []*Block{{
				Selectors: []string{"div"},
				Children: []*Block{{
					Selectors:  []string{"@media screen and(min-width:576px)"},
					Properties: prop("background-color", "white"),
					Children: []*Block{{
						Selectors:  []string{"@media(prefers-color-scheme:dark)"},
						Properties: prop("background-color", "black"),
					}},
				}},
			}},
			want: "@media screen and(min-width:576px){div{background-color:white}}" +
				"@media screen and(min-width:576px)and(prefers-color-scheme:dark){div{background-color:black}}",
		},
		{
			name: "keyframes",
			tree: []*Block{{
				Selectors: []string{"@keyframes test"},
				Children: []*Block{
					{Selectors: []string{"from"}, Properties: prop("opacity", "0")},
					{Selectors: []string{"to"}, Properties: prop("opacity", "1")},
				},
			}},
			want: "@keyframes test{from{opacity:0}to{opacity:1}}",
		},
		{
			name: "scope",
			tree: []*Block{{
				Selectors: []string{"@scope(.test)"},
				Children: []*Block{
					{Selectors: []string{":scope"}, Properties: prop("background-color", "salmon")},
					{
						Selectors:  []string{"a"},
						Properties: prop("color", "maroon"),
						Children:   []*Block{{Selectors: []string{"&:hover"}, Properties: prop("color", "blue")}},
					},
				},
			}},
			want: "@scope(.test){:scope{background-color:salmon}a{color:maroon}a:hover{color:blue}}",
		},
		{
			name: "contexts keep first-seen order",
			tree: []*Block{
				{Selectors: []string{"@keyframes k"}, Children: []*Block{{Selectors: []string{"to"}, Properties: prop("opacity", "1")}}},
				{Selectors: []string{"p"}, Properties: prop("margin", "0")},
			},
			want: "@keyframes k{to{opacity:1}}p{margin:0}",
		},
		{
			name: "non-screen media resets parents",
			tree: []*Block{{
				Selectors: []string{".a"},
				Children: []*Block{{
					Selectors: []string{"@media not screen"},
					Children:  []*Block{{Selectors: []string{"b"}, Properties: prop("color", "red")}},
				}},
			}},
			want: "@media not screen{b{color:red}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tree)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	media := func(children ...*Block) *Block {
		return &Block{Selectors: []string{"@media screen and(min-width:576px)"}, Children: children}
	}
	dark := func(children ...*Block) *Block {
		return &Block{Selectors: []string{"@media(prefers-color-scheme:dark)"}, Children: children}
	}

	tests := []struct {
		name string
		tree []*Block
		want error
	}{
		{"media in media", []*Block{media(media())}, ErrNestedMediaQuery},
		{"media in non-screen media", []*Block{{Selectors: []string{"@media not screen"}, Children: []*Block{media()}}}, ErrNestedMediaQuery},
		{"media in color scheme", []*Block{dark(media())}, ErrMediaInColorScheme},
		{"color scheme in color scheme", []*Block{dark(dark())}, ErrNestedColorScheme},
		{"at-rule in at-rule", []*Block{{
			Selectors: []string{"@supports (display:grid)"},
			Children:  []*Block{{Selectors: []string{"@keyframes k"}}},
		}}, ErrNestedAtRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.tree)
			var re *RenderError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RenderError, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRender_ParsedSource(t *testing.T) {
	tree := mustParse(t, "div{ & span { color: red; } }")

	got, err := Render(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "div span{color:red}" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_LeadingMediaQuery(t *testing.T) {
	tree, err := Parse("@media screen and(min-width:576px){ .a { color: red; } } .a { color: blue; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Render(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "@media screen and(min-width:576px){.a{color:red}}.a{color:blue}"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFlatten(t *testing.T) {
	tree, err := Parse(".a { color: teal; b { margin: 0; } } @keyframes k { to { opacity: 1; } }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Flatten(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Rule{
		{Selectors: []string{".a"}, Properties: prop("color", "teal")},
		{Selectors: []string{".a b"}, Properties: prop("margin", "0")},
		{Context: "@keyframes k", Selectors: []string{"to"}, Properties: prop("opacity", "1")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}

	if _, err := Flatten([]*Block{{Selectors: []string{"@font-face"}, Children: []*Block{{Selectors: []string{"@media print"}}}}}); err == nil {
		t.Fatal("expected nested at-rule error")
	}
}

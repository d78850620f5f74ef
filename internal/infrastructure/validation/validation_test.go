package validation

import (
	"testing"

	"community_server/pkg/errorx"
)

type groupForm struct {
	Name  string   `json:"name" binding:"required,min=1,max=100"`
	Slug  string   `json:"slug" binding:"required,slug,max=100"`
	Cover string   `json:"cover_image" binding:"omitempty,url"`
	Tags  []string `json:"tags" binding:"max=10"`
}

func TestStructPasses(t *testing.T) {
	form := groupForm{Name: "Gophers", Slug: "go-phers_1", Cover: "https://example.com/a.png"}
	if err := Struct(form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	form := groupForm{Name: "", Slug: "Bad Slug", Cover: "not a url", Tags: make([]string, 11)}
	err := Struct(form)
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("code = %d, err = %v", errorx.GetCode(err), err)
	}
	fields := err.(*errorx.CodeError).Fields
	for _, key := range []string{"name", "slug", "cover_image", "tags"} {
		if fields[key] == "" {
			t.Errorf("missing field message for %q in %v", key, fields)
		}
	}
}

func TestSlugTranslationZh(t *testing.T) {
	if err := Init("zh"); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = Init("en") }()

	err := Struct(groupForm{Name: "n", Slug: "UPPER"})
	fields := err.(*errorx.CodeError).Fields
	if fields["slug"] != "slug只能包含小写字母、数字、'-'和'_'" {
		t.Errorf("slug message = %q", fields["slug"])
	}
}

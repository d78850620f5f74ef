package statemachine

import (
	"testing"

	"community_server/pkg/enum/entity/entity_type_enum"
	"community_server/pkg/errorx"
)

func TestValidateTable(t *testing.T) {
	legal := map[string]map[[2]string]bool{
		entity_type_enum.GROUP: {
			{"pending", "approved"}:  true,
			{"pending", "rejected"}:  true,
			{"rejected", "approved"}: true,
		},
		entity_type_enum.POST: {
			{"draft", "pending"}:     true,
			{"pending", "published"}: true,
			{"pending", "rejected"}:  true,
		},
	}

	for entityType, table := range legal {
		states := States(entityType)
		for _, from := range states {
			for _, to := range states {
				err := Validate(entityType, from, to)
				if table[[2]string{from, to}] {
					if err != nil {
						t.Errorf("%s %s->%s: unexpected error %v", entityType, from, to, err)
					}
					continue
				}
				if errorx.GetCode(err) != errorx.CodeInvalidTransition {
					t.Errorf("%s %s->%s: expected InvalidTransition, got %v", entityType, from, to, err)
				}
			}
		}
	}
}

func TestValidateUnknownEntity(t *testing.T) {
	err := Validate("comment", "pending", "approved")
	if errorx.GetCode(err) != errorx.CodeInvalidTransition {
		t.Fatalf("got %v", err)
	}
}

func TestValidateUnknownState(t *testing.T) {
	err := Validate(entity_type_enum.POST, "archived", "published")
	if errorx.GetCode(err) != errorx.CodeInvalidTransition {
		t.Fatalf("got %v", err)
	}
}

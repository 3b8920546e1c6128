package rbac

import (
	"testing"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required string
		want     bool
	}{
		{name: "admin для admin", role: RoleAdmin, required: RoleAdmin, want: true},
		{name: "admin для user", role: RoleAdmin, required: RoleUser, want: true},
		{name: "user для admin — отказ", role: RoleUser, required: RoleAdmin, want: false},
		{name: "user для user", role: RoleUser, required: RoleUser, want: true},
		{name: "пустая роль — отказ", role: "", required: RoleUser, want: false},
		{name: "неизвестная роль — отказ", role: "superuser", required: RoleUser, want: false},
		{name: "регистр имеет значение", role: "ADMIN", required: RoleAdmin, want: false},
		{name: "неизвестная требуемая роль — отказ admin", role: RoleAdmin, required: "editor", want: false},
		{name: "неизвестная требуемая роль — отказ user", role: RoleUser, required: "editor", want: false},
		{name: "пустая требуемая роль — отказ", role: RoleAdmin, required: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Satisfies(tt.role, tt.required); got != tt.want {
				t.Errorf("Satisfies(%q, %q) = %v, ожидается %v", tt.role, tt.required, got, tt.want)
			}
		})
	}
}

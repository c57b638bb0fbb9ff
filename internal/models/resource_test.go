package models

import "testing"

func TestCategoryValid(t *testing.T) {
	valid := []Category{
		CategoryPastPaper, CategoryMarkScheme, CategoryExaminerReport,
		CategorySyllabus, CategoryNotes, CategoryBook, CategoryExtraMaterials,
	}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}

	for _, c := range []Category{"", "past_paper", "VIDEO"} {
		if c.Valid() {
			t.Errorf("%q should not be valid", c)
		}
	}
}

func TestLevelDisplay(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelALevel, "A LEVEL"},
		{LevelASLevel, "AS LEVEL"},
		{LevelIGCSE, "IGCSE"},
	}
	for _, tt := range tests {
		if got := tt.level.Display(); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestUserCanAccessBooks(t *testing.T) {
	admin := User{Role: RoleAdmin}
	if !admin.CanAccessBooks() {
		t.Error("admins always have book access")
	}

	granted := User{Role: RoleUser, HasBookAccess: true}
	if !granted.CanAccessBooks() {
		t.Error("granted user should have book access")
	}

	plain := User{Role: RoleUser}
	if plain.CanAccessBooks() {
		t.Error("plain user should not have book access")
	}
}

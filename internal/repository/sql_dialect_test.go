package repository

import "testing"

func TestBuildLikeConditionByDialectSQLite(t *testing.T) {
	condition, args := buildLikeConditionByDialect("sqlite", " golang ", "title", "description")
	if condition != "(title LIKE ? OR description LIKE ?)" {
		t.Fatalf("unexpected condition %s", condition)
	}
	if len(args) != 2 || args[0] != "%golang%" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestBuildLikeConditionByDialectPostgres(t *testing.T) {
	condition, _ := buildLikeConditionByDialect("postgres", "go", "title")
	if condition != "(title ILIKE ?)" {
		t.Fatalf("postgres condition want ILIKE got %s", condition)
	}
}

func TestBuildLikeConditionEmptyKeyword(t *testing.T) {
	condition, args := buildLikeCondition(nil, "   ", "title")
	if condition != "" || args != nil {
		t.Fatalf("empty keyword should produce no condition, got %q %v", condition, args)
	}
}

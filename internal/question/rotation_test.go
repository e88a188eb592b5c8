package question

import "testing"

func TestNextCategory(t *testing.T) {
	tests := []struct {
		name     string
		current  Category
		expected Category
	}{
		{"empty starts the cycle", "", CategoryIntroduction},
		{"introduction to family", CategoryIntroduction, CategoryFamily},
		{"career to general", CategoryCareer, CategoryGeneral},
		{"general wraps to introduction", CategoryGeneral, CategoryIntroduction},
		{"unknown falls back to general", Category("weather"), CategoryGeneral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextCategory(tc.current); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestCategoryByTurn_Cyclic(t *testing.T) {
	for n := 0; n < 24; n++ {
		if CategoryByTurn(n) != CategoryByTurn(n+8) {
			t.Errorf("Expected CategoryByTurn(%d) == CategoryByTurn(%d)", n, n+8)
		}
	}

	if CategoryByTurn(0) != CategoryIntroduction {
		t.Errorf("Expected turn 0 to map to introduction, got %q", CategoryByTurn(0))
	}
	if CategoryByTurn(7) != CategoryGeneral {
		t.Errorf("Expected turn 7 to map to general, got %q", CategoryByTurn(7))
	}
}

func TestCategoryOrder_Length(t *testing.T) {
	if len(CategoryOrder) != 8 {
		t.Fatalf("Expected 8 categories in rotation, got %d", len(CategoryOrder))
	}
}

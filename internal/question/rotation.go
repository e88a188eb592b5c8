package question

// Category is a question topic. Sessions rotate through categories in a
// fixed cyclic order so that practice covers the whole interview arc.
type Category string

const (
	CategoryIntroduction Category = "introduction"
	CategoryFamily       Category = "family"
	CategoryEducation    Category = "education"
	CategoryResearch     Category = "research"
	CategoryInterest     Category = "interest"
	CategoryMotivation   Category = "motivation"
	CategoryCareer       Category = "career"
	CategoryGeneral      Category = "general"
)

// CategoryOrder is the fixed rotation. Index arithmetic below relies on
// this slice staying exactly eight entries long.
var CategoryOrder = []Category{
	CategoryIntroduction,
	CategoryFamily,
	CategoryEducation,
	CategoryResearch,
	CategoryInterest,
	CategoryMotivation,
	CategoryCareer,
	CategoryGeneral,
}

// NextCategory advances the rotation. An empty current category starts
// the cycle; an unknown one falls back to general.
func NextCategory(current Category) Category {
	if current == "" {
		return CategoryOrder[0]
	}
	for i, c := range CategoryOrder {
		if c == current {
			return CategoryOrder[(i+1)%len(CategoryOrder)]
		}
	}
	return CategoryGeneral
}

// CategoryByTurn maps a 0-based turn count onto the rotation.
func CategoryByTurn(turnCount int) Category {
	if turnCount < 0 {
		turnCount = 0
	}
	return CategoryOrder[turnCount%len(CategoryOrder)]
}

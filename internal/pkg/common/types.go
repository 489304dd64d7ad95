package common

// Recipe is a single recipe record as returned to the frontend
type Recipe struct {
	Name         string `json:"recipe_name"`
	Ingredients  string `json:"ingredients"`  // comma separated
	Instructions string `json:"instructions"` // numbered steps
	CookTime     string `json:"cook_time"`    // human readable duration
}

// Recipe wire field names
const (
	FieldRecipeName   = "recipe_name"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldCookTime     = "cook_time"
)

// RecipeFields lists the fields every generated recipe must carry, in prompt order
var RecipeFields = []string{FieldRecipeName, FieldIngredients, FieldInstructions, FieldCookTime}

// RecipesResponse response body of the recipe endpoints
type RecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// CloneRecipes returns a copy of recipes that callers may modify freely
func CloneRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	copy(out, recipes)
	return out
}

// HeaderRecipeSource response header telling whether recipes were generated or came from the fallback catalog
const HeaderRecipeSource = "X-Recipe-Source"

package recipe

import "fmt"

const generatePromptTemplate = `Act as a professional chef with 20 years of experience. Create 2 unique and delicious recipes based on: %s

IMPORTANT:
- Make each recipe completely different in style (e.g., one Italian, one Asian, one Mexican)
- Use different cooking methods (baking, grilling, frying, etc.)
- Include varied flavor profiles (spicy, sweet, savory, etc.)

For each recipe, provide:
1) A creative and descriptive name
2) A complete list of all ingredients needed
3) Detailed, step-by-step cooking instructions
4) Estimated preparation and cooking time

Format the response as a valid JSON array with these exact keys for each recipe:
- "recipe_name"
- "ingredients"
- "instructions"
- "cook_time"

Make the recipes genuinely different from each other!`

const searchPromptTemplate = `Act as a professional chef. Suggest 3 delicious recipes that match this search: %s.
For each recipe, provide:
1) A creative name.
2) A list of main ingredients.
3) Clear, step-by-step instructions.
4) An estimated cooking time.

Format the entire response as a valid JSON array. Each object in the array must have these exact keys:
- "recipe_name"
- "ingredients"
- "instructions"
- "cook_time"`

// BuildGeneratePrompt asks for two stylistically distinct recipes from ingredients
func BuildGeneratePrompt(ingredients string) string {
	return fmt.Sprintf(generatePromptTemplate, ingredients)
}

// BuildSearchPrompt asks for three recipes matching a free text query
func BuildSearchPrompt(query string) string {
	return fmt.Sprintf(searchPromptTemplate, query)
}

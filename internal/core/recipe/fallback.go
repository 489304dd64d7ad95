package recipe

import (
	"fmt"
	"strings"

	"secure-recipe/internal/pkg/common"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule maps keywords to a fixed recipe set. A rule matches when the lowercased
// input contains every keyword of at least one group.
type Rule struct {
	Keywords [][]string
	Recipes  []common.Recipe
}

func (r Rule) matches(lower string) bool {
	for _, group := range r.Keywords {
		all := true
		for _, kw := range group {
			if !strings.Contains(lower, kw) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// Catalog canned recipes served when generation is unavailable or unusable
type Catalog struct {
	name      string
	rules     []Rule
	defaultFn func(input string) []common.Recipe
}

// Name identifies the catalog in logs
func (c *Catalog) Name() string {
	return c.name
}

// Lookup returns the first matching rule's recipes, or the default set built
// from input. The result is always non-empty and safe to modify.
func (c *Catalog) Lookup(input string) []common.Recipe {
	lower := strings.ToLower(input)
	for _, rule := range c.rules {
		if rule.matches(lower) {
			return common.CloneRecipes(rule.Recipes)
		}
	}
	return c.defaultFn(input)
}

// GenerateCatalog fallback for recipe generation by ingredients
var GenerateCatalog = &Catalog{
	name: "generate",
	rules: []Rule{
		{
			Keywords: [][]string{{"chicken", "rice"}},
			Recipes: []common.Recipe{
				{
					Name:         "Asian Chicken Stir-Fry",
					Ingredients:  "chicken, rice, soy sauce, ginger, garlic, vegetables, sesame oil",
					Instructions: "1. Cook rice according to package instructions. 2. Cut chicken into strips and marinate in soy sauce. 3. Stir-fry garlic and ginger in sesame oil. 4. Add chicken and cook until done. 5. Add vegetables and stir-fry until crisp-tender. 6. Serve over rice.",
					CookTime:     "25 minutes",
				},
				{
					Name:         "Mediterranean Chicken Bowl",
					Ingredients:  "chicken, rice, olive oil, lemon, herbs, cucumbers, tomatoes, feta cheese",
					Instructions: "1. Grill chicken with herbs and lemon. 2. Prepare rice. 3. Chop fresh vegetables. 4. Assemble bowls with rice, chicken, and fresh vegetables. 5. Drizzle with olive oil and lemon juice. 6. Top with feta cheese.",
					CookTime:     "30 minutes",
				},
			},
		},
		{
			Keywords: [][]string{{"pasta"}},
			Recipes: []common.Recipe{
				{
					Name:         "Creamy Garlic Pasta",
					Ingredients:  "pasta, garlic, cream, parmesan, butter, herbs",
					Instructions: "1. Cook pasta al dente. 2. Sauté garlic in butter. 3. Add cream and simmer. 4. Stir in parmesan until melted. 5. Combine with pasta. 6. Garnish with fresh herbs.",
					CookTime:     "20 minutes",
				},
				{
					Name:         "Tomato Basil Pasta",
					Ingredients:  "pasta, tomatoes, basil, garlic, olive oil, parmesan",
					Instructions: "1. Cook pasta al dente. 2. Sauté garlic in olive oil. 3. Add chopped tomatoes and cook until softened. 4. Toss with pasta and fresh basil. 5. Top with grated parmesan.",
					CookTime:     "15 minutes",
				},
			},
		},
		{
			Keywords: [][]string{{"beef"}},
			Recipes: []common.Recipe{
				{
					Name:         "Beef Stir-Fry",
					Ingredients:  "beef, vegetables, soy sauce, ginger, garlic, rice",
					Instructions: "1. Slice beef thinly against the grain. 2. Stir-fry with garlic and ginger. 3. Add vegetables and cook until crisp-tender. 4. Add soy sauce and simmer. 5. Serve over rice.",
					CookTime:     "20 minutes",
				},
				{
					Name:         "Beef and Potato Stew",
					Ingredients:  "beef, potatoes, carrots, onions, broth, herbs",
					Instructions: "1. Brown beef cubes in a pot. 2. Add chopped vegetables and broth. 3. Simmer for 1-2 hours until tender. 4. Season with herbs and spices. 5. Serve hot.",
					CookTime:     "1 hour 30 minutes",
				},
			},
		},
	},
	defaultFn: func(ingredients string) []common.Recipe {
		return []common.Recipe{
			{
				Name:         "Savory Skillet Dish",
				Ingredients:  fmt.Sprintf("%s, spices, oil, herbs", ingredients),
				Instructions: "1. Prepare all ingredients. 2. Heat oil in a skillet. 3. Cook main ingredients until tender. 4. Add spices and seasonings. 5. Simmer for 10 minutes. 6. Serve hot with your favorite sides.",
				CookTime:     "30 minutes",
			},
			{
				Name:         "Fresh Garden Salad",
				Ingredients:  fmt.Sprintf("%s, lettuce, dressing, nuts, cheese", ingredients),
				Instructions: "1. Wash and chop all vegetables. 2. Combine in a large bowl. 3. Add protein if available. 4. Toss with your favorite dressing. 5. Top with nuts and cheese. 6. Serve immediately.",
				CookTime:     "15 minutes",
			},
		}
	},
}

// SearchCatalog fallback for recipe search
var SearchCatalog = &Catalog{
	name: "search",
	rules: []Rule{
		{
			Keywords: [][]string{{"pasta"}},
			Recipes: []common.Recipe{
				{
					Name:         "Creamy Garlic Pasta",
					Ingredients:  "pasta, garlic, cream, parmesan cheese, olive oil, herbs",
					Instructions: "1. Cook pasta according to package instructions. 2. Sauté garlic in olive oil until fragrant. 3. Add cream and simmer for 5 minutes. 4. Add grated parmesan and stir until melted. 5. Combine with drained pasta and garnish with herbs.",
					CookTime:     "20 minutes",
				},
			},
		},
		{
			Keywords: [][]string{{"dessert"}, {"sweet"}},
			Recipes: []common.Recipe{
				{
					Name:         "Chocolate Brownies",
					Ingredients:  "chocolate, butter, sugar, eggs, flour, cocoa powder",
					Instructions: "1. Melt chocolate and butter together. 2. Mix in sugar and eggs. 3. Fold in flour and cocoa powder. 4. Bake at 350°F for 25-30 minutes. 5. Let cool before serving.",
					CookTime:     "40 minutes",
				},
			},
		},
		{
			Keywords: [][]string{{"curry"}},
			Recipes: []common.Recipe{
				{
					Name:         "Chicken Curry",
					Ingredients:  "chicken, curry powder, coconut milk, onions, garlic, ginger",
					Instructions: "1. Sauté onions, garlic, and ginger until soft. 2. Add chicken and cook until browned. 3. Add curry powder and cook for 1 minute. 4. Add coconut milk and simmer for 20 minutes. 5. Serve with rice or bread.",
					CookTime:     "35 minutes",
				},
			},
		},
		{
			Keywords: [][]string{{"meat"}},
			Recipes: []common.Recipe{
				{
					Name:         "Grilled Meat Platter",
					Ingredients:  "assorted meats, spices, olive oil, herbs",
					Instructions: "1. Season meats with spices and herbs. 2. Preheat grill to medium-high. 3. Grill meats to desired doneness. 4. Let rest for 5 minutes. 5. Slice and serve with sides.",
					CookTime:     "25 minutes",
				},
			},
		},
	},
	defaultFn: func(query string) []common.Recipe {
		return []common.Recipe{
			{
				Name:         "Delicious " + titleCase(query),
				Ingredients:  "Fresh ingredients for " + query,
				Instructions: fmt.Sprintf("1. Prepare all ingredients. 2. Follow standard cooking techniques for %s. 3. Cook until done. 4. Season to taste. 5. Serve and enjoy!", query),
				CookTime:     "30 minutes",
			},
		}
	},
}

// titleCase upper-cases the first letter of every word and lower-cases the rest
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

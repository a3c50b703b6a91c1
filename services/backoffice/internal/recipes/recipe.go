package recipes

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Recipe is a catalog entry. Steps are ordered; ingredients and tools are not.
type Recipe struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	ImageURL      string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	VideoDuration string    `json:"video_duration,omitempty" bson:"video_duration,omitempty"`
	VideoURL      string    `json:"video_url,omitempty" bson:"video_url,omitempty"`
	Ingredients   []string  `json:"ingredients" bson:"ingredients"`
	Steps         []string  `json:"steps" bson:"steps"`
	Tools         []string  `json:"tools" bson:"tools"`
	Category      string    `json:"category" bson:"category"`
}

func (r *Recipe) GetID() uuid.UUID {
	return r.ID
}

func (r *Recipe) ResourceType() string {
	return "recipe"
}

// View records that an employee watched a recipe. One view per employee
// and recipe; watching again refreshes WatchedAt.
type View struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	RecipeID     uuid.UUID `json:"recipe_id" bson:"recipe_id"`
	RecipeName   string    `json:"recipe_name" bson:"recipe_name"`
	EmployeeID   string    `json:"employee_id" bson:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty" bson:"employee_name,omitempty"`
	WatchedAt    time.Time `json:"watched_at" bson:"watched_at"`
}

func NewView(recipe *Recipe, employeeID, employeeName string, at time.Time) *View {
	return &View{
		ID:           aqm.GenerateNewID(),
		RecipeID:     recipe.ID,
		RecipeName:   recipe.Name,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		WatchedAt:    at,
	}
}

func (v *View) GetID() uuid.UUID {
	return v.ID
}

func (v *View) ResourceType() string {
	return "recipe-view"
}

// Search keeps recipes whose name, category or description contains query,
// ignoring case. An empty query matches everything.
func Search(recipes []*Recipe, query string) []*Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	result := []*Recipe{}
	for _, r := range recipes {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Category), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			result = append(result, r)
		}
	}
	return result
}

func Categories(recipes []*Recipe) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, r := range recipes {
		if r.Category != "" && !seen[r.Category] {
			seen[r.Category] = true
			result = append(result, r.Category)
		}
	}
	sort.Strings(result)
	return result
}

package query

import (
	"fmt"

	"github.com/tair/price-forecasting/internal/catalog/domain"
)

// CategoryNode is a category with its resolved children
type CategoryNode struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	ParentID *uint          `json:"parent_id"`
	Children []CategoryNode `json:"children"`
}

// CategoryTreeQuery represents the query to build the category forest
type CategoryTreeQuery struct{}

// CategoryTreeHandler handles category tree query
type CategoryTreeHandler struct {
	repo domain.CategoryRepository
}

// NewCategoryTreeHandler creates a new category tree handler
func NewCategoryTreeHandler(repo domain.CategoryRepository) *CategoryTreeHandler {
	return &CategoryTreeHandler{repo: repo}
}

// Handle executes the category tree query
func (h *CategoryTreeHandler) Handle(_ CategoryTreeQuery) ([]CategoryNode, error) {
	categories, err := h.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return BuildTree(categories), nil
}

// BuildTree groups a flat category list into a forest rooted at
// categories without a parent. Each category is emitted at most once,
// so a malformed parent chain (a cycle such as A->B->A) terminates
// instead of recursing forever; cycle members that never reach a root
// are omitted from the forest.
func BuildTree(categories []domain.Category) []CategoryNode {
	visited := make(map[uint]bool, len(categories))
	return buildSubtree(categories, nil, visited)
}

func buildSubtree(categories []domain.Category, parentID *uint, visited map[uint]bool) []CategoryNode {
	nodes := []CategoryNode{}

	for _, c := range categories {
		if !sameParent(c.ParentID, parentID) {
			continue
		}
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true

		id := c.ID
		nodes = append(nodes, CategoryNode{
			ID:       c.ID,
			Name:     c.Name,
			ParentID: c.ParentID,
			Children: buildSubtree(categories, &id, visited),
		})
	}

	return nodes
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package client

import (
	"fmt"
	"sync"

	"github.com/pageza/feastcraft/backend/internal/types"
)

// Session holds the state of one planning screen: the plan, which cards are flipped,
// which meals are being replaced and the grocery list. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	meals     []types.Meal
	flipped   map[int]bool
	replacing map[int]bool
	grocery   types.GroceryList
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{
		flipped:   make(map[int]bool),
		replacing: make(map[int]bool),
	}
}

// SetMeals replaces the plan and clears flipped cards
func (s *Session) SetMeals(meals []types.Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals = append([]types.Meal(nil), meals...)
	s.flipped = make(map[int]bool)
}

// Meals returns a copy of the plan
func (s *Session) Meals() []types.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Meal(nil), s.meals...)
}

// ToggleFlip flips card i and reports its new state
func (s *Session) ToggleFlip(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flipped[i] {
		delete(s.flipped, i)
		return false
	}
	s.flipped[i] = true
	return true
}

// IsFlipped reports whether card i shows its back
func (s *Session) IsFlipped(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flipped[i]
}

// BeginReplace marks meal i as being replaced
func (s *Session) BeginReplace(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replacing[i] = true
}

// EndReplace clears the in-flight mark on meal i
func (s *Session) EndReplace(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.replacing, i)
}

// IsReplacing reports whether meal i is being replaced
func (s *Session) IsReplacing(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replacing[i]
}

// ReplaceAt swaps meal i for meal
func (s *Session) ReplaceAt(i int, meal types.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.meals) {
		return fmt.Errorf("meal index %d out of range (plan has %d meals)", i, len(s.meals))
	}
	s.meals[i] = meal
	return nil
}

// AllIngredients concatenates the ingredients of every meal in plan order
func (s *Session) AllIngredients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ingredients(s.meals)
}

// SetGroceryList stores the grocery list
func (s *Session) SetGroceryList(list types.GroceryList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grocery = list
}

// GroceryList returns the stored grocery list
func (s *Session) GroceryList() types.GroceryList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grocery
}

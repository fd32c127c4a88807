package menu

import (
	"time"

	"github.com/noah-isme/backend-resto/internal/pricing"
)

// Category identifies a menu tab.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Item is a single dish on the menu. Days restricts which weekdays it is served.
type Item struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       pricing.Money  `json:"price"`
	Image       string         `json:"img,omitempty"`
	Category    string         `json:"-"`
	Days        []time.Weekday `json:"-"`
}

// ServedOn reports whether the item is on the menu for the given weekday.
func (it Item) ServedOn(day time.Weekday) bool {
	for _, d := range it.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Provider supplies the catalog. Swappable so tests can inject fixtures.
type Provider interface {
	Categories() []Category
	Items() []Item
}

// StaticProvider serves the fixed in-memory catalog.
type StaticProvider struct {
	categories []Category
	items      []Item
}

// NewStaticProvider returns the provider backed by the default catalog.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		categories: []Category{
			{ID: CategoryStarters, Title: "Starters"},
			{ID: CategoryBreakfast, Title: "Breakfast"},
			{ID: CategoryLunch, Title: "Lunch"},
			{ID: CategoryDinner, Title: "Dinner"},
		},
		items: defaultItems(),
	}
}

// Categories returns the menu tabs in display order.
func (p *StaticProvider) Categories() []Category { return p.categories }

// Items returns every dish in the catalog, across all days.
func (p *StaticProvider) Items() []Item { return p.items }

// Category identifiers.
const (
	CategoryStarters  = "starters"
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
)

func defaultItems() []Item {
	return []Item{
		{ID: 1, Name: "Bruschetta", Description: "Toasted bread with fresh tomatoes, garlic, basil, and olive oil", Price: 100, Image: "menu-item-1.png", Category: CategoryStarters, Days: []time.Weekday{time.Monday, time.Thursday}},
		{ID: 2, Name: "Fried Calamari", Description: "Lightly breaded squid served with marinara sauce", Price: 200, Image: "menu-item-2.png", Category: CategoryStarters, Days: []time.Weekday{time.Tuesday, time.Friday}},
		{ID: 3, Name: "Caprese Salad", Description: "Fresh mozzarella, tomatoes, and basil with balsamic glaze", Price: 300, Image: "menu-item-3.png", Category: CategoryStarters, Days: []time.Weekday{time.Wednesday, time.Saturday}},
		{ID: 4, Name: "Stuffed Mushrooms", Description: "Mushroom caps filled with seasoned breadcrumbs and cheese", Price: 400, Image: "menu-item-4.png", Category: CategoryStarters, Days: []time.Weekday{time.Sunday}},

		{ID: 7, Name: "Eggs Benedict", Description: "Poached eggs on English muffin with hollandaise sauce", Price: 900, Image: "menu-item-5.png", Category: CategoryBreakfast, Days: []time.Weekday{time.Tuesday, time.Thursday}},
		{ID: 8, Name: "Belgian Waffles", Description: "Fluffy waffles topped with fresh berries and maple syrup", Price: 700, Image: "menu-item-6.png", Category: CategoryBreakfast, Days: []time.Weekday{time.Tuesday, time.Friday}},
		{ID: 9, Name: "Avocado Toast", Description: "Whole grain toast with smashed avocado, eggs, and red pepper flakes", Price: 800, Image: "menu-item-1.png", Category: CategoryBreakfast, Days: []time.Weekday{time.Wednesday, time.Saturday}},
		{ID: 10, Name: "Pancake Stack", Description: "Buttermilk pancakes with butter and pure maple syrup", Price: 600, Image: "menu-item-3.png", Category: CategoryBreakfast, Days: []time.Weekday{time.Tuesday, time.Sunday}},

		{ID: 14, Name: "Turkey Club Sandwich", Description: "Triple-decker with turkey, bacon, lettuce, and tomato", Price: 1200, Image: "menu-item-4.png", Category: CategoryLunch, Days: []time.Weekday{time.Tuesday, time.Friday}},
		{ID: 15, Name: "Mushroom Risotto", Description: "Arborio rice slowly cooked with wild mushrooms and parmesan", Price: 1300, Image: "menu-item-5.png", Category: CategoryLunch, Days: []time.Weekday{time.Wednesday, time.Saturday}},
		{ID: 16, Name: "Greek Salad", Description: "Tomatoes, cucumber, olives, feta, and red onion with oregano", Price: 1000, Image: "menu-item-6.png", Category: CategoryLunch, Days: []time.Weekday{time.Sunday}},

		{ID: 13, Name: "Veg-Noodles", Description: "Veg Noodle, romaine, parmesan in a flour tortilla", Price: 1100, Image: "menu-item-3.png", Category: CategoryDinner, Days: []time.Weekday{time.Tuesday, time.Thursday}},
		{ID: 19, Name: "Filet Mignon", Description: "8oz tenderloin with mashed potatoes and seasonal vegetables", Price: 3000, Image: "menu-item-2.png", Category: CategoryDinner, Days: []time.Weekday{time.Tuesday, time.Thursday}},
		{ID: 20, Name: "Grilled Salmon", Description: "Wild-caught salmon with lemon butter sauce and asparagus", Price: 2200, Image: "menu-item-1.png", Category: CategoryDinner, Days: []time.Weekday{time.Tuesday, time.Friday}},
		{ID: 21, Name: "Rice Bowl", Description: "Breaded chicken breast topped with marinara and mozzarella", Price: 1700, Image: "menu-item-6.png", Category: CategoryDinner, Days: []time.Weekday{time.Tuesday, time.Saturday}},
		{ID: 22, Name: "Prime Rib", Description: "Slow-roasted prime rib with au jus and horseradish cream", Price: 2700, Image: "menu-item-3.png", Category: CategoryDinner, Days: []time.Weekday{time.Tuesday}},
	}
}

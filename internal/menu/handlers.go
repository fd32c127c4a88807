package menu

import (
	"net/http"

	"github.com/noah-isme/backend-resto/internal/common"
)

// Handler exposes the menu with availability state.
type Handler struct {
	Provider  Provider
	Scheduler *Scheduler
}

type categoryView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Available bool   `json:"available"`
	Items     []Item `json:"items"`
}

type menuResponse struct {
	Day        string         `json:"day"`
	Categories []categoryView `json:"categories"`
}

// GetMenu returns every category with its availability state and the items
// served today. A category can be available with an empty item list when
// nothing on it is scheduled for the current weekday.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Provider == nil || h.Scheduler == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "menu service not configured", nil)
		return
	}
	snap := h.Scheduler.Current()
	items := h.Provider.Items()

	byCategory := make(map[string][]Item)
	for _, it := range items {
		if !it.ServedOn(snap.Day) {
			continue
		}
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	categories := h.Provider.Categories()
	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		todays := byCategory[c.ID]
		if todays == nil {
			todays = []Item{}
		}
		views = append(views, categoryView{
			ID:        c.ID,
			Title:     c.Title,
			Available: snap.HasCategory(c.ID),
			Items:     todays,
		})
	}
	common.JSON(w, http.StatusOK, menuResponse{
		Day:        snap.Day.String(),
		Categories: views,
	})
}

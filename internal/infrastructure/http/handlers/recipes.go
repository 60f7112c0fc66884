package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/foodgram/v2/internal/infrastructure/http/middleware"
	"github.com/foodgram/v2/internal/ports/inbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeHandler serves the recipe catalog: listings, detail pages, and CRUD.
type RecipeHandler struct {
	catalog inbound.CatalogService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(catalog inbound.CatalogService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		catalog: catalog,
		logger:  logger.Named("recipe-handler"),
	}
}

// List handles GET / with optional tag and page query parameters
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.ListRecipes(r.Context(), listQueryFromRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListByAuthor handles GET /users/{username}
func (h *RecipeHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page, err := h.catalog.ListByAuthor(r.Context(), username, listQueryFromRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListFavorites handles GET /favorites
func (h *RecipeHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	page, err := h.catalog.ListFavorites(r.Context(), session.UserID, listQueryFromRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListPurchases handles GET /purchases
func (h *RecipeHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	recipes, err := h.catalog.ListPurchases(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// Redirect handles GET /recipes/{id}, redirecting to the canonical URL
func (h *RecipeHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid recipe id"))
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, "/recipes/"+recipe.ID.String()+"/"+recipe.Slug, http.StatusFound)
}

// Detail handles GET /recipes/{id}/{slug}
func (h *RecipeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid recipe id"))
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Create handles POST /recipes/new
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateRecipeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	cmd.AuthorID = middleware.SessionFromContext(r.Context()).UserID

	recipe, err := h.catalog.CreateRecipe(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

// Edit handles GET /recipes/{id}/{slug}/edit, returning the recipe for
// editing. A non-owner is redirected to the recipe view page instead of
// receiving an error payload.
func (h *RecipeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid recipe id"))
		return
	}

	recipe, err := h.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if recipe.Author.ID != session.UserID && !session.Superuser {
		http.Redirect(w, r, "/recipes/"+recipe.ID.String()+"/"+recipe.Slug, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Update handles POST /recipes/{id}/{slug}/edit
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid recipe id"))
		return
	}

	var cmd inbound.UpdateRecipeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	session := middleware.SessionFromContext(r.Context())
	cmd.RecipeID = id
	cmd.UserID = session.UserID
	cmd.Superuser = session.Superuser

	recipe, err := h.catalog.UpdateRecipe(r.Context(), cmd)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotRecipeOwner) {
			h.redirectToRecipe(w, r, id)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Delete handles POST /recipes/{id}/{slug}/delete
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid recipe id"))
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if err := h.catalog.DeleteRecipe(r.Context(), id, session.UserID, session.Superuser); err != nil {
		if apperrors.Is(err, apperrors.CodeNotRecipeOwner) {
			h.redirectToRecipe(w, r, id)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Tags handles GET /tags
func (h *RecipeHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.AllTags(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

func (h *RecipeHandler) redirectToRecipe(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	recipe, err := h.catalog.GetRecipe(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, "/recipes/"+recipe.ID.String()+"/"+recipe.Slug, http.StatusFound)
}

// listQueryFromRequest reads the shared tag and page query parameters.
// Repeated tag parameters accumulate into one OR filter.
func listQueryFromRequest(r *http.Request) inbound.ListQuery {
	q := inbound.ListQuery{Page: 1}
	if tags, ok := r.URL.Query()["tag"]; ok {
		q.TagSlugs = tags
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			q.Page = page
		}
	}
	return q
}

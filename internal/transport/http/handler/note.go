package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quicknotes/internal/app"
	"quicknotes/internal/model"
	"quicknotes/internal/transport/http/middleware"
	"quicknotes/internal/transport/http/response"
)

type NoteHandler struct {
	noteService *app.NoteService
}

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	Category uint   `json:"category" binding:"required"`
}

type UpdateNoteRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Content  *string `json:"content"`
	Category *uint   `json:"category"`
}

func NewNoteHandler(noteService *app.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}

	var categoryID uint
	if raw := c.Query("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid category filter")
			return
		}
		categoryID = uint(parsed)
	}

	notes, err := h.noteService.List(userID, categoryID)
	if err != nil {
		h.writeError(c, err, "list notes failed")
		return
	}

	result := make([]gin.H, 0, len(notes))
	for i := range notes {
		result = append(result, noteResponse(&notes[i]))
	}
	response.OK(c, result)
}

func (h *NoteHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "note not found")
		return
	}

	note, err := h.noteService.Get(userID, noteID)
	if err != nil {
		h.writeError(c, err, "get note failed")
		return
	}
	response.OK(c, noteDetailResponse(note))
}

func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	note, err := h.noteService.Create(app.CreateNoteInput{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
	})
	if err != nil {
		h.writeError(c, err, "create note failed")
		return
	}
	response.OK(c, noteResponse(note))
}

func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "note not found")
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	note, err := h.noteService.Update(userID, noteID, app.UpdateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.Category,
	})
	if err != nil {
		h.writeError(c, err, "update note failed")
		return
	}
	response.OK(c, noteResponse(note))
}

func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	noteID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "note not found")
		return
	}

	if err := h.noteService.Delete(userID, noteID); err != nil {
		h.writeError(c, err, "delete note failed")
		return
	}
	response.OK(c, nil)
}

func (h *NoteHandler) ByCategory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}

	grouped, err := h.noteService.ListGroupedByCategory(userID)
	if err != nil {
		h.writeError(c, err, "group notes failed")
		return
	}

	result := make([]gin.H, 0, len(grouped))
	for _, bucket := range grouped {
		notes := make([]gin.H, 0, len(bucket.Notes))
		for i := range bucket.Notes {
			notes = append(notes, noteResponse(&bucket.Notes[i]))
		}
		result = append(result, gin.H{
			"category": bucket.Category,
			"notes":    notes,
		})
	}
	response.OK(c, result)
}

func (h *NoteHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "note not found")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

// noteResponse is the light shape used by list, create and update: the
// category appears as flat name/color fields next to its id.
func noteResponse(note *model.Note) gin.H {
	return gin.H{
		"id":             note.ID,
		"title":          note.Title,
		"content":        note.Content,
		"category":       note.CategoryID,
		"category_name":  note.Category.Name,
		"category_color": note.Category.Color,
		"created_at":     note.CreatedAt,
		"updated_at":     note.UpdatedAt,
	}
}

// noteDetailResponse is the detail shape used by single-note reads: the
// full category object is embedded.
func noteDetailResponse(note *model.Note) gin.H {
	return gin.H{
		"id":               note.ID,
		"title":            note.Title,
		"content":          note.Content,
		"category":         note.CategoryID,
		"category_details": note.Category,
		"created_at":       note.CreatedAt,
		"updated_at":       note.UpdatedAt,
	}
}

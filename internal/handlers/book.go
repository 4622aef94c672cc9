package handlers

import (
	"net/http"

	"bookshelf/internal/models"
	"bookshelf/internal/services"
	"bookshelf/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type BookHandler struct {
	bookService *services.BookService
}

func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

type createBookRequest struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"required,max=300"`
	ISBN   int64  `json:"isbn" validate:"required,gt=0"`
}

type updateBookRequest struct {
	Title  string `json:"title" validate:"max=500"`
	Author string `json:"author" validate:"max=300"`
	ISBN   *int64 `json:"isbn" validate:"omitempty,gt=0"`
}

type booksResponse struct {
	Books   []models.Book `json:"books"`
	Message string        `json:"message"`
}

type bookResponse struct {
	Book   *models.Book `json:"book"`
	Status bool         `json:"status"`
}

type deleteBookResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

// GetBooks godoc
// @Summary Список книг
// @Tags books
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} booksResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /books [get]
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.List(r.Context())
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, booksResponse{Books: books, Message: "findAll"})
}

// GetBook godoc
// @Summary Книга по isbn
// @Tags books
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ISBN"
// @Success 200 {object} bookResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /book/{id} [get]
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookService.GetByISBN(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, bookResponse{Book: book, Status: true})
}

// CreateBook godoc
// @Summary Создать книгу
// @Tags books
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body createBookRequest true "Книга"
// @Success 200 {object} bookResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /books [post]
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		helpers.WriteError(w, appErr)
		return
	}

	book, err := h.bookService.Create(r.Context(), services.CreateBookInput{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, bookResponse{Book: book, Status: true})
}

// UpdateBook godoc
// @Summary Обновить книгу (или создать, если такой нет)
// @Description Если isbn нет в теле, берётся из пути.
// @Tags books
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ISBN"
// @Param input body updateBookRequest true "Поля книги"
// @Success 200 {object} bookResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /book/{id} [put]
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		helpers.WriteError(w, appErr)
		return
	}

	book := models.Book{Title: req.Title, Author: req.Author}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	} else {
		isbn, err := services.ParseISBN(mux.Vars(r)["id"])
		if err != nil {
			helpers.WriteError(w, err)
			return
		}
		book.ISBN = isbn
	}

	updated, err := h.bookService.Update(r.Context(), book)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, bookResponse{Book: updated, Status: true})
}

// DeleteBook godoc
// @Summary Удалить книгу (мягко)
// @Tags books
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ISBN"
// @Success 200 {object} deleteBookResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /book/{id} [delete]
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if _, err := h.bookService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, deleteBookResponse{Message: "Book was deleted", Status: true})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

// AdminHandler processes admin login and account management.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Login handles POST /api/admins/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed credentials")
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		failWith(c, "admin_login", err)
		return
	}

	middleware.SetAuthCookie(c, token)
	respond(c, http.StatusOK, "Logged in", gin.H{"token": token})
}

// Create handles POST /api/admins.
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed credentials")
		return
	}

	admin, err := h.facade.CreateAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failWith(c, "create_admin", err)
		return
	}
	respond(c, http.StatusCreated, "Admin created", gin.H{"admin": dto.NewAdminResponse(*admin)})
}

// List handles GET /api/admins.
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.facade.Admins(c.Request.Context())
	if err != nil {
		failWith(c, "list_admins", err)
		return
	}
	resp := make([]dto.AdminResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, dto.NewAdminResponse(a))
	}
	respond(c, http.StatusOK, "", gin.H{"admins": resp})
}

// Delete handles DELETE /api/admins/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid admin id")
		return
	}
	actorID, _ := CurrentAdminID(c)

	if err := h.facade.DeleteAdmin(c.Request.Context(), actorID, id); err != nil {
		failWith(c, "delete_admin", err)
		return
	}
	respond(c, http.StatusOK, "Admin deleted", nil)
}

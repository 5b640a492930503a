package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitechat/sitechat"
)

type leadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *Server) handleLeadCreate(c echo.Context) error {
	var req leadRequest
	if err := c.Bind(&req); err != nil {
		return sitechat.Errorf(sitechat.EINVALID, "invalid request body")
	}

	lead := &sitechat.Lead{
		Domain:  s.Domain,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.Leads.CreateLead(c.Request().Context(), lead); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, lead)
}

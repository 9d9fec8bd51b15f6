package admin

import (
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListPersons 参与者列表（含券数）
func (h *Handler) ListPersons(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	items, total, err := h.PersonService.List(repository.PersonListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// NormalizePersonNames 姓名统一为首字母大写
func (h *Handler) NormalizePersonNames(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	updated, err := h.PersonService.NormalizeNames(actor)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.Sprintf(localeOf(c), "person.names_normalized", updated), gin.H{"updated": updated})
}

func localeOf(c *gin.Context) string {
	return i18n.ResolveLocale(c)
}

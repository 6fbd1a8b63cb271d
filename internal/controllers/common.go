package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gearguard/internal/dto"
	"gearguard/pkg/types"
)

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return id, nil
}

func paginatedResponse[T any](ctx echo.Context, data []T, total uint64, filter types.Filter, message string) error {
	if data == nil {
		data = []T{}
	}
	res := dto.PaginatedSuccessResponse[T]{
		Status:  true,
		Message: message,
		Data:    data,
		Pagination: &dto.Pagination{
			TotalCount: total,
			Limit:      uint64(filter.Limit),
			Offset:     uint64(filter.Offset),
		},
	}
	if filter.WithPagination && filter.Limit > 0 {
		limit := uint64(filter.Limit)
		res.Pagination.CurrentPage = uint64(filter.Page)
		res.Pagination.TotalPages = (total + limit - 1) / limit
	}
	return ctx.JSON(http.StatusOK, res)
}

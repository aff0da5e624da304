package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sweetlab/sweet_shop/internal/logging"
	"github.com/sweetlab/sweet_shop/internal/service"
	"github.com/sweetlab/sweet_shop/internal/transport"
)

const fuzzySearchLimit = 50

type SweetHTTP struct {
	Svc *service.SweetService
}

func sweetID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// an unparseable id can never match a stored sweet
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Sweet not found")
	}
	return id, nil
}

func sweetError(c echo.Context, op string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", op)
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op+"_failed", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op+"_failed", "status", 404, "reason", "not found")
		return echo.NewHTTPError(http.StatusNotFound, "Sweet not found")
	case errors.Is(err, service.ErrInsufficientStock):
		l.Warn(op+"_failed", "status", 400, "reason", "insufficient stock")
		return echo.NewHTTPError(http.StatusBadRequest, "Insufficient quantity in stock")
	default:
		l.Error(op+"_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Request failed")
	}
}

func (h *SweetHTTP) List(c echo.Context) error {
	sweets, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return sweetError(c, "sweet.list", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(sweets),
		"sweets":  sweets,
	})
}

func (h *SweetHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	if q := c.QueryParam("q"); q != "" {
		sweets, err := h.Svc.FuzzySearch(ctx, q, fuzzySearchLimit)
		if err != nil {
			return sweetError(c, "sweet.search", err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"count":   len(sweets),
			"sweets":  sweets,
		})
	}

	filter := transport.SweetFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}
	if v, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}

	sweets, err := h.Svc.Search(ctx, filter)
	if err != nil {
		return sweetError(c, "sweet.search", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(sweets),
		"sweets":  sweets,
	})
}

func (h *SweetHTTP) Get(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	sweet, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return sweetError(c, "sweet.get", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"sweet":   sweet,
	})
}

func (h *SweetHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.create")

	var req transport.CreateSweetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sweet_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sweet, err := h.Svc.Create(ctx, req)
	if err != nil {
		return sweetError(c, "sweet.create", err)
	}

	l.Info("sweet_create_success", "sweetID", sweet.ID.String())
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Sweet created successfully",
		"sweet":   sweet,
	})
}

func (h *SweetHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.update")

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateSweetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sweet_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sweet, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return sweetError(c, "sweet.update", err)
	}

	l.Info("sweet_update_success", "sweetID", sweet.ID.String())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Sweet updated successfully",
		"sweet":   sweet,
	})
}

func (h *SweetHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.delete")

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return sweetError(c, "sweet.delete", err)
	}

	l.Info("sweet_delete_success", "sweetID", id.String())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Sweet deleted successfully",
	})
}

func (h *SweetHTTP) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.purchase")

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sweet_purchase_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	sweet, err := h.Svc.Purchase(ctx, id, qty)
	if err != nil {
		return sweetError(c, "sweet.purchase", err)
	}

	l.Info("sweet_purchase_success", "sweetID", sweet.ID.String(), "quantity", qty)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Purchase successful",
		"sweet":   sweet,
	})
}

func (h *SweetHTTP) Restock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.restock")

	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req transport.RestockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sweet_restock_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Quantity == nil {
		l.Warn("sweet_restock_failed", "status", 400, "reason", "missing quantity")
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide a valid quantity")
	}

	sweet, err := h.Svc.Restock(ctx, id, *req.Quantity)
	if err != nil {
		return sweetError(c, "sweet.restock", err)
	}

	l.Info("sweet_restock_success", "sweetID", sweet.ID.String(), "quantity", *req.Quantity)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Restocked successfully",
		"sweet":   sweet,
	})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pingcraft/identity-system/internal/api/metrics"
	"github.com/pingcraft/identity-system/internal/api/middleware"
	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

type UserHandler struct {
	svc ports.IdentityService
}

func NewUserHandler(svc ports.IdentityService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register creates a new account from self-service sign-up.
//
// @Summary      Register a new account
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	id, err := h.svc.Register(c.Request().Context(), req.Account, req.Password, req.CheckPassword)
	observe("register", start, err)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// Login verifies credentials and binds the user to the request's session.
//
// @Summary      Log in
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.LoginUserView
// @Failure      400   {object}  ErrorResponse
// @Router       /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	view, err := h.svc.Login(c.Request().Context(), req.Account, req.Password, middleware.SessionID(c))
	observe("login", start, err)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, view)
}

// Me returns the sanitized view of the caller's own account.
//
// @Summary      Current login state
// @Tags         user
// @Produce      json
// @Success      200  {object}  domain.LoginUserView
// @Failure      401  {object}  ErrorResponse
// @Router       /user/get/login [get]
func (h *UserHandler) Me(c echo.Context) error {
	start := time.Now()
	user, err := h.svc.CurrentUser(c.Request().Context(), middleware.SessionID(c))
	observe("current_user", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.NewLoginUserView(user))
}

// Logout clears the caller's login state.
//
// @Summary      Log out
// @Tags         user
// @Produce      json
// @Success      200  {object}  successResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /user/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	start := time.Now()
	ok, err := h.svc.Logout(c.Request().Context(), middleware.SessionID(c))
	observe("logout", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: ok})
}

// AddUser creates an account on behalf of an administrator.
//
// @Summary      Create a user (admin)
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      addUserRequest  true  "User details"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /user/add [post]
func (h *UserHandler) AddUser(c echo.Context) error {
	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Account: req.Account,
		Name:    req.Name,
		Profile: req.Profile,
		Role:    req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// GetUser returns the full record, admin only.
//
// @Summary      Get a user by id (admin)
// @Tags         user
// @Produce      json
// @Param        id   query     int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  ErrorResponse
// @Router       /user/get [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserVO returns the sanitized view of a user, for regular callers.
//
// @Summary      Get a sanitized user view by id
// @Tags         user
// @Produce      json
// @Param        id   query     int  true  "User id"
// @Success      200  {object}  domain.UserView
// @Failure      404  {object}  ErrorResponse
// @Router       /user/get/vo [get]
func (h *UserHandler) GetUserVO(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.NewUserView(user))
}

// UpdateUser edits a user's display name, profile, or role. Admin only.
//
// @Summary      Update a user (admin)
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /user/update [post]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.UpdateUser(c.Request().Context(), ports.UpdateUserInput{
		ID:      req.ID,
		Name:    req.Name,
		Profile: req.Profile,
		Role:    req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// DeleteUser soft-deletes a user. Admin only.
//
// @Summary      Delete a user (admin)
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      deleteUserRequest  true  "User id"
// @Success      200   {object}  successResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /user/delete [post]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	var req deleteUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.DeleteUser(c.Request().Context(), req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// ListUsers returns one page of sanitized user views. Admin only.
//
// @Summary      List users (admin)
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      listUsersRequest  true  "Filters and paging"
// @Success      200   {object}  userPageResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /user/list/page/vo [post]
func (h *UserHandler) ListUsers(c echo.Context) error {
	var req listUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q := ports.UserQuery{
		ID:        req.ID,
		Account:   req.Account,
		Name:      req.Name,
		Profile:   req.Profile,
		Role:      req.Role,
		Page:      req.Current,
		PageSize:  req.PageSize,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
	}
	views, total, err := h.svc.ListUsers(c.Request().Context(), q)
	if err != nil {
		return err
	}

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	return c.JSON(http.StatusOK, userPageResponse{
		Records:  views,
		Total:    total,
		Current:  q.Page,
		PageSize: q.PageSize,
	})
}

func queryID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

func observe(op string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.IdentityOpDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

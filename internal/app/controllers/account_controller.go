package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/app/services"
	"github.com/denizt/traincenter/internal/middleware"
	"github.com/denizt/traincenter/internal/pkg/helpers"
)

// AccountController handles account administration endpoints
type AccountController struct {
	accountService *services.AccountService
}

// NewAccountController creates a new AccountController
func NewAccountController(accountService *services.AccountService) *AccountController {
	return &AccountController{accountService: accountService}
}

// CreateAccount creates an account with explicit credentials
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAccountRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=models.Account} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /accounts [post]
func (c *AccountController) CreateAccount(ctx *gin.Context) {
	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	account, err := c.accountService.CreateAccount(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: account, Timestamp: time.Now()})
}

// GetCurrentAccount returns the profile of the authenticated account
// @Summary Get own profile
// @Description Returns the account behind the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Account} "Account retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AccountController) GetCurrentAccount(ctx *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	account, err := c.accountService.GetAccount(ctx, accountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: account, Timestamp: time.Now()})
}

// GetAccount retrieves an account by ID
// @Summary Get account details
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} dto.APIResponse{data=models.Account} "Account retrieved"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{id} [get]
func (c *AccountController) GetAccount(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	account, err := c.accountService.GetAccount(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: account, Timestamp: time.Now()})
}

// ListAccounts lists accounts with optional role filtering
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(admin, teacher, student)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Accounts retrieved"
// @Router /accounts [get]
func (c *AccountController) ListAccounts(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	accounts, pagination, err := c.accountService.ListAccounts(ctx, ctx.Query("role"), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PaginatedResponse{Data: accounts, Pagination: *pagination},
		Timestamp: time.Now(),
	})
}

// UpdateAccount applies a partial update to an account
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Account} "Account updated"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{id} [put]
func (c *AccountController) UpdateAccount(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	account, err := c.accountService.UpdateAccount(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: account, Timestamp: time.Now()})
}

// DeleteAccount removes an account
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Account deleted"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{id} [delete]
func (c *AccountController) DeleteAccount(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.accountService.DeleteAccount(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Account deleted"},
		Timestamp: time.Now(),
	})
}

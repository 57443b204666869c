package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reuseu/internal/domain/entity"
	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type AccountHandler struct {
	accountUseCase *usecase.AccountUseCase
}

func NewAccountHandler(accountUseCase *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUseCase: accountUseCase}
}

type createAccountRequest struct {
	UserID      string   `json:"UserID" validate:"required"`
	Username    string   `json:"Username"`
	FirstName   string   `json:"First_Name"`
	LastName    string   `json:"Last_Name"`
	PhoneNumber string   `json:"PhoneNumber"`
	School      string   `json:"School"`
	Pronouns    string   `json:"Pronouns"`
	AboutMe     string   `json:"AboutMe"`
	Email       string   `json:"email" validate:"required,email"`
	Favorites   []string `json:"Favorites"`
}

type favoritesRequest struct {
	Favorites []string `json:"Favorites"`
}

type pictureRequest struct {
	Image string `json:"image" validate:"required"`
}

func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	account, err := h.accountUseCase.Create(c.Request().Context(), sessionOf(c), entity.Account{
		UserID:      req.UserID,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		School:      req.School,
		Pronouns:    req.Pronouns,
		AboutMe:     req.AboutMe,
		Email:       req.Email,
		Favorites:   req.Favorites,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, account)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	account, err := h.accountUseCase.Get(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, account)
}

func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var patch entity.AccountPatch
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}
	account, err := h.accountUseCase.Update(c.Request().Context(), sessionOf(c), c.Param("id"), patch)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, account)
}

func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	if err := h.accountUseCase.Delete(c.Request().Context(), sessionOf(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Account deleted"})
}

func (h *AccountHandler) GetFavorites(c echo.Context) error {
	favorites, err := h.accountUseCase.GetFavorites(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoritesRequest{Favorites: favorites})
}

func (h *AccountHandler) SetFavorites(c echo.Context) error {
	var req favoritesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	favorites, err := h.accountUseCase.SetFavorites(c.Request().Context(), sessionOf(c), c.Param("id"), req.Favorites)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoritesRequest{Favorites: favorites})
}

func (h *AccountHandler) SetProfilePicture(c echo.Context) error {
	var req pictureRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	key, err := h.accountUseCase.SetProfilePicture(c.Request().Context(), sessionOf(c), c.Param("id"), req.Image)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"pfp_key": key})
}

func (h *AccountHandler) GetProfilePicture(c echo.Context) error {
	data, err := h.accountUseCase.GetProfilePicture(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

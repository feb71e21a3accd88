package handler

import (
	"net/http"

	auth "github.com/ZEN8890/Pinventory-Api/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	loginUC *auth.LoginUsecase // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{loginUC: loginUC}
}

// 認証なしのグループに登録
func (h *AuthHandler) RegisterRoutes(public *echo.Group) {
	public.POST("/login", h.login)
}

// POST /login。成功するとユーザーとアクセストークンを返す。
func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

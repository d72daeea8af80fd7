package handlers

import (
	"net/http"

	"github.com/BNsrujan/Youtube-Clone/internal/handlers/render"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers/userctx"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
	"github.com/BNsrujan/Youtube-Clone/internal/models"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth"
)

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required_without=Email,username,max=50"`
		Email    string `json:"email" validate:"required_without=Username,max=254"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		User         models.Profile `json:"user"`
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		profile, pair, err := authService.Login(r.Context(), auth.Credentials{
			Username: data.Username,
			Email:    data.Email,
			Password: data.Password,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{
			User:         profile,
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		}, "User logged In Successfully")
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type response struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, render.MaxBodySize)

		refresh, err := authService.GetRefreshString(r)
		if err != nil {
			renderError(w, l, err)
			return
		}

		pair, err := authService.RefreshPair(r.Context(), refresh)
		if err != nil {
			renderError(w, l, err)
			return
		}

		authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		}, "Access token refreshed")
	})
}

func handleLogout(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		claims, _ := userctx.ClaimsFromContext(r.Context())

		if err := authService.Logout(r.Context(), profile.ID, claims); err != nil {
			renderError(w, l, err)
			return
		}

		authService.ClearTokens(w)
		render.JSON(w, struct{}{}, "User logged Out")
	})
}

func handleChangePassword(authService authService, l logger.Logger) http.Handler {
	type request struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,max=128"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = authService.ChangePassword(r.Context(), profile.ID, data.OldPassword, data.NewPassword)
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, struct{}{}, "Password changed successfully")
	})
}

package handlers

import (
	"net/http"

	"github.com/BNsrujan/Youtube-Clone/internal/handlers/render"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers/userctx"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
	"github.com/BNsrujan/Youtube-Clone/internal/service/user"
)

func handleRegister(userService userService, l logger.Logger) http.Handler {
	type request struct {
		FullName   string `json:"fullName" validate:"required,max=100"`
		Email      string `json:"email" validate:"required,email,max=254"`
		Username   string `json:"username" validate:"required,username,min=3,max=50"`
		Password   string `json:"password" validate:"required,max=128"`
		Avatar     string `json:"avatar" validate:"omitempty,url"`
		CoverImage string `json:"coverImage" validate:"omitempty,url"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		profile, err := userService.CreateUser(r.Context(), user.RegisterParams{
			FullName:   data.FullName,
			Email:      data.Email,
			Username:   data.Username,
			Password:   data.Password,
			Avatar:     data.Avatar,
			CoverImage: data.CoverImage,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, http.StatusCreated, profile, "User registered Successfully")
	})
}

func handleCurrentUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, profile, "User fetched successfully")
	})
}

func handleUpdateAccount(userService userService, l logger.Logger) http.Handler {
	type request struct {
		FullName string `json:"fullName" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email,max=254"`
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

		updated, err := userService.UpdateAccount(r.Context(), profile.ID, data.FullName, data.Email)
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, updated, "Account details updated successfully")
	})
}
